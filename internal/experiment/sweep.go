package experiment

import (
	"context"

	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/sim"
)

// Sweep runs cfg over runs consecutive seeds starting at cfg.Sim.Seed, in
// parallel.
func Sweep(ctx context.Context, cfg *config.Config, reg *Registry, runs int) ([]*sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	build := func(seed int64) (sim.Scene, []sim.Metric, error) {
		c := *cfg
		c.Sim.Seed = seed
		e, err := New(&c, reg, nil)
		if err != nil {
			return nil, nil, err
		}
		return e, e.loop.Metrics(), nil
	}
	return sim.NewEnsemble(build, runs, cfg.Sim.Seed).Run(ctx, cfg.Loop())
}

// Summary aggregates one metric across sweep results.
type Summary struct {
	Metric   string
	Mean     float64
	Min, Max float64
	Count    int
}

func Summarize(results []*sim.Result, metric string) Summary {
	s := Summary{Metric: metric}
	for _, r := range results {
		v, ok := r.Metrics[metric]
		if !ok {
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if s.Count == 0 || v > s.Max {
			s.Max = v
		}
		s.Mean += v
		s.Count++
	}
	if s.Count > 0 {
		s.Mean /= float64(s.Count)
	}
	return s
}
