package experiment

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/physics"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/top"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameDt = 1.0 / 64

func binaryClock(cfg *config.Config) *config.Config {
	cfg.Sim.FrameDt = frameDt
	cfg.Sim.FixedDt = frameDt / 2
	cfg.Sim.Seed = 1
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"ledge", "stairs", "table", "void"}, r.ListScenes())
	assert.NotEmpty(t, r.Describe("table"))

	w := physics.NewWorld()
	require.NoError(t, r.Build("stairs", w))
	assert.Len(t, w.Colliders(), 4)

	assert.Error(t, r.Build("moon", physics.NewWorld()))
	assert.Len(t, r.DefaultMetrics(1), 4)
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scene.Name = "moon"
	_, err := New(cfg, NewRegistry(), nil)
	assert.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Top.PushInterval = 0
	_, err = New(cfg, NewRegistry(), nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func phases(samples []sim.Sample) map[string]bool {
	seen := make(map[string]bool)
	for _, s := range samples {
		seen[s.Phase] = true
	}
	return seen
}

func TestTableRunSettles(t *testing.T) {
	cfg := binaryClock(config.DefaultConfig())
	e, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)
	defer e.Close()

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	seen := phases(result.Samples)
	assert.True(t, seen["placing"])
	assert.True(t, seen["settling"])

	final := result.Final()
	assert.False(t, final.Spinning)
	assert.Equal(t, "idle", final.Phase)
	assert.Equal(t, cfg.Top.StableCenterOfMass, final.CenterOfMass)

	settle := result.Metrics["settle_time"]
	assert.GreaterOrEqual(t, settle, cfg.Top.MinFallTime-frameDt)
	assert.LessOrEqual(t, settle, cfg.Top.MaxFallTime+frameDt)
	assert.Greater(t, result.Metrics["push_effort"], 0.0)
	assert.Greater(t, result.Metrics["spin_energy"], 0.0)
}

func TestPlacementTargetsTable(t *testing.T) {
	cfg := binaryClock(config.DefaultConfig())
	cfg.Sim.Duration = 1.25
	e, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	require.NoError(t, err)

	target := e.Controller().Target()
	assert.InDelta(t, 0.9, target.Y(), 1e-9)
	assert.InDelta(t, -1, target.Z(), 1e-9)
	assert.Equal(t, top.PhasePlacing, e.Controller().Phase())
	assert.True(t, e.Body().Kinematic())
	assert.Nil(t, e.Hand().Held())
}

func TestStairsSnapsToRiser(t *testing.T) {
	cfg := binaryClock(config.GetPreset("stairs"))
	cfg.Sim.Duration = 1.25
	e, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, e.Controller().Target().ApproxEqualThreshold(mgl64.Vec3{0, 0.4, -1.05}, 1e-6),
		"target %v", e.Controller().Target())
}

func TestTossInVoid(t *testing.T) {
	cfg := binaryClock(config.GetPreset("toss"))
	e, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, phases(result.Samples)["placing"])
	final := result.Final()
	assert.True(t, final.Spinning)
	assert.Less(t, final.Position.Y(), cfg.Scene.Eye.Y()-1)
	assert.Less(t, final.Position.Z(), -1.0, "tossed forward")
}

func TestPickupDuringPlacementKeepsTopInHand(t *testing.T) {
	cfg := binaryClock(config.DefaultConfig())
	cfg.Scene.UseAt = []float64{1}
	cfg.Scene.PickupAt = []float64{0, 1.125}
	cfg.Sim.Duration = 3
	e, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)
	defer e.Close()

	result, err := e.Run(context.Background())
	require.NoError(t, err)

	seen := phases(result.Samples)
	assert.True(t, seen["placing"])
	assert.False(t, seen["settling"])
	for _, s := range result.Samples {
		if s.Time > 1.125+frameDt {
			assert.Equal(t, "idle", s.Phase, "t=%.3f", s.Time)
			assert.False(t, s.Spinning, "t=%.3f", s.Time)
		}
	}

	assert.Same(t, e.Body(), e.Hand().Held())
	assert.True(t, e.Hand().PickedUp())
	assert.True(t, e.Body().Kinematic())
	assert.Equal(t, mgl64.Vec3{}, e.Body().Velocity())
	assert.True(t, e.Body().Position().ApproxEqual(e.Hand().HoldPoint()))
}

func TestManualUseWithoutGrabIsIgnored(t *testing.T) {
	cfg := binaryClock(config.DefaultConfig())
	cfg.Scene.PickupAt = nil
	cfg.Scene.UseAt = nil
	cfg.Sim.Duration = 1
	e, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	e.Use()
	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"idle": true}, phases(result.Samples))

	e.Grab()
	e.Hand().Update(1)
	e.Use()
	assert.Equal(t, top.PhasePlacing, e.Controller().Phase())
}

func TestSweep(t *testing.T) {
	cfg := binaryClock(config.GetPreset("quick"))
	results, err := Sweep(context.Background(), cfg, NewRegistry(), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	s := Summarize(results, "settle_time")
	assert.Equal(t, 3, s.Count)
	assert.GreaterOrEqual(t, s.Min, cfg.Top.MinFallTime-frameDt)
	assert.LessOrEqual(t, s.Max, cfg.Top.MaxFallTime+frameDt)
	assert.LessOrEqual(t, s.Min, s.Mean)
	assert.GreaterOrEqual(t, s.Max, s.Mean)

	assert.Zero(t, Summarize(results, "missing").Count)
}
