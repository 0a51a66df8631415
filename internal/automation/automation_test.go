package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/experiment"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
name: smoke
description: one table run and one toss
steps:
  - scene: table
    seed: 3
    duration: 2
    save: true
  - preset: toss
    duration: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "smoke", s.Name)
	require.Len(t, s.Steps, 2)
	assert.True(t, s.Steps[0].Save)
	assert.Equal(t, "toss", s.Steps[1].Preset)

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.Error(t, err)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStepConfig(t *testing.T) {
	cfg, err := ScenarioStep{Preset: "toss", Seed: 9, UseAt: []float64{0.5}}.Config()
	require.NoError(t, err)
	assert.Equal(t, config.GetPreset("toss").Scene.Name, cfg.Scene.Name)
	assert.Equal(t, int64(9), cfg.Sim.Seed)
	assert.Equal(t, []float64{0.5}, cfg.Scene.UseAt)

	_, err = ScenarioStep{Preset: "nope"}.Config()
	assert.Error(t, err)

	_, err = ScenarioStep{Duration: -1, UseAt: []float64{-2}}.Config()
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), st, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[0].RunID)
	assert.Empty(t, results[1].RunID)
	assert.Equal(t, OutcomePlaced, Classify(results[0].Result.Samples))
	assert.Equal(t, OutcomeTossed, Classify(results[1].Result.Samples))

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, results[0].RunID, runs[0].ID)
}

func TestRunScenarioSaveNeedsStore(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{Duration: 0.5, Save: true}}}
	_, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil, nil)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeNone, Classify(nil))
	assert.Equal(t, OutcomeNone, Classify([]sim.Sample{{Phase: "idle"}}))
	assert.Equal(t, OutcomeTossed, Classify([]sim.Sample{{Phase: "idle"}, {Phase: "tossed"}}))
	assert.Equal(t, OutcomePlaced, Classify([]sim.Sample{{Phase: "placing"}, {Phase: "tossed"}}))
}

func TestMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Sim.Duration = 2

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:      base,
		NumTrials: 3,
		Seed:      1,
	}, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	counts := MonteCarloStats(results)
	assert.Equal(t, 3, counts[OutcomePlaced])
	assert.Equal(t, 0, counts[OutcomeTossed])
	for _, r := range results {
		assert.Equal(t, base.Scene.Forward, r.Forward)
	}

	_, err = RunMonteCarlo(context.Background(), &MonteCarloConfig{NumTrials: 1}, experiment.NewRegistry(), nil)
	assert.Error(t, err)
}

func TestMonteCarloJitterMovesGaze(t *testing.T) {
	base := config.DefaultConfig()
	base.Sim.Duration = 0.5

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:        base,
		AimJitter:   0.1,
		StartJitter: 0.05,
		NumTrials:   2,
		Seed:        7,
	}, experiment.NewRegistry(), nil)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, base.Scene.Forward, r.Forward)
		assert.InDelta(t, base.Scene.Start.Y(), r.Start.Y(), 0)
	}
}
