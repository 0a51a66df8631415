package experiment

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/metrics"
	"github.com/san-kum/spintop/internal/physics"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/top"
)

// StabilityThreshold is the tilt in radians past which a sample counts as
// unstable.
const StabilityThreshold = 0.2

type scene struct {
	description string
	build       func(w *physics.World)
}

// Registry holds the named scenes an experiment can be set in.
type Registry struct {
	scenes map[string]scene
}

func NewRegistry() *Registry {
	r := &Registry{scenes: make(map[string]scene)}

	r.Register("table", "a table in front of the viewer on a flat floor", func(w *physics.World) {
		w.AddCollider(physics.NewGround(0))
		w.AddCollider(physics.NewBox(mgl64.Vec3{0, 0.4, -1}, mgl64.Vec3{0.6, 0.4, 0.4}, top.LayerSurface))
	})
	r.Register("ledge", "a table whose right edge is at x=0.3", func(w *physics.World) {
		w.AddCollider(physics.NewGround(0))
		w.AddCollider(physics.NewBox(mgl64.Vec3{-0.3, 0.4, -1}, mgl64.Vec3{0.6, 0.4, 0.4}, top.LayerSurface))
	})
	r.Register("void", "nothing to stand on", func(w *physics.World) {})
	r.Register("stairs", "three steps rising away from the viewer", func(w *physics.World) {
		w.AddCollider(physics.NewGround(0))
		for i := 0; i < 3; i++ {
			h := 0.15 * float64(i+1)
			w.AddCollider(physics.NewBox(
				mgl64.Vec3{0, h / 2, -0.6 - 0.3*float64(i)},
				mgl64.Vec3{0.5, h / 2, 0.15},
				top.LayerSurface,
			))
		}
	})

	return r
}

func (r *Registry) Register(name, description string, build func(w *physics.World)) {
	r.scenes[name] = scene{description: description, build: build}
}

func (r *Registry) Build(name string, w *physics.World) error {
	s, ok := r.scenes[name]
	if !ok {
		return fmt.Errorf("unknown scene: %s", name)
	}
	s.build(w)
	return nil
}

func (r *Registry) Describe(name string) string {
	return r.scenes[name].description
}

func (r *Registry) ListScenes() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(inertia float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewSettleTime(),
		metrics.NewStability(StabilityThreshold),
		metrics.NewPushEffort(),
		metrics.NewSpinEnergy(inertia),
	}
}
