package sim

import (
	"context"
	"fmt"
	"sync"
)

// SceneFactory builds an independent scene and its metrics for one seed.
type SceneFactory func(seed int64) (Scene, []Metric, error)

// Ensemble runs the same scene over consecutive seeds in parallel.
type Ensemble struct {
	build     SceneFactory
	numRuns   int
	seedStart int64
}

func NewEnsemble(build SceneFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			scene, metrics, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			loop := New()
			for _, m := range metrics {
				loop.AddMetric(m)
			}

			results[idx], errs[idx] = loop.Run(ctx, scene, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
