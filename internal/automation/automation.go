package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/experiment"
	"github.com/san-kum/spintop/internal/logging"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/storage"
	"github.com/san-kum/spintop/internal/top"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the preset's (or the default)
// value.
type ScenarioStep struct {
	Preset   string    `yaml:"preset"`
	Scene    string    `yaml:"scene"`
	Seed     int64     `yaml:"seed"`
	Duration float64   `yaml:"duration"`
	UseAt    []float64 `yaml:"use_at"`
	PickupAt []float64 `yaml:"pickup_at"`
	Save     bool      `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Scene != "" {
		cfg.Scene.Name = s.Scene
	}
	if s.Seed != 0 {
		cfg.Sim.Seed = s.Seed
	}
	if s.Duration > 0 {
		cfg.Sim.Duration = s.Duration
	}
	if s.UseAt != nil {
		cfg.Scene.UseAt = s.UseAt
	}
	if s.PickupAt != nil {
		cfg.Scene.PickupAt = s.PickupAt
	}
	return cfg, cfg.Validate()
}

type StepResult struct {
	Step   int
	Config *config.Config
	Result *sim.Result

	// RunID is set for steps stored with Save.
	RunID string
}

// RunScenario runs every step in order. st may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, st *storage.Store, log logging.Logger) ([]StepResult, error) {
	log = logging.OrNop(log)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Infof("running step %d/%d: %s", i+1, len(scenario.Steps), cfg.Scene.Name)

		result, err := runOnce(ctx, cfg, reg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Config: cfg, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			if sr.RunID, err = st.Save(cfg, step.Preset, result); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

func runOnce(ctx context.Context, cfg *config.Config, reg *experiment.Registry) (*sim.Result, error) {
	exp, err := experiment.New(cfg, reg, nil)
	if err != nil {
		return nil, err
	}
	defer exp.Close()
	return exp.Run(ctx)
}

// Outcome is what a run did with the top.
type Outcome string

const (
	OutcomeNone   Outcome = "none"
	OutcomePlaced Outcome = "placed"
	OutcomeTossed Outcome = "tossed"
)

// Classify reports the first placement or toss in samples.
func Classify(samples []sim.Sample) Outcome {
	for _, s := range samples {
		switch s.Phase {
		case top.PhasePlacing.String(), top.PhaseSettling.String():
			return OutcomePlaced
		case top.PhaseTossed.String():
			return OutcomeTossed
		}
	}
	return OutcomeNone
}

// MonteCarloConfig perturbs the gaze and start position of Base.
type MonteCarloConfig struct {
	Base        *config.Config
	AimJitter   float64 // added to each gaze component
	StartJitter float64 // metres, horizontal
	NumTrials   int
	Seed        int64
}

type MonteCarloResult struct {
	TrialID int
	Forward mgl64.Vec3
	Start   mgl64.Vec3
	Outcome Outcome
	Final   sim.Sample
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry, log logging.Logger) ([]MonteCarloResult, error) {
	log = logging.OrNop(log)
	if cfg.Base == nil {
		return nil, fmt.Errorf("monte carlo: no base config")
	}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	rng := rand.New(rand.NewSource(cfg.Seed))
	jitter := func(scale float64) float64 { return (rng.Float64() - 0.5) * 2 * scale }

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.Sim.Seed = cfg.Base.Sim.Seed + int64(trial)
		c.Scene.Forward = c.Scene.Forward.Add(mgl64.Vec3{jitter(cfg.AimJitter), jitter(cfg.AimJitter), jitter(cfg.AimJitter)})
		c.Scene.Start = c.Scene.Start.Add(mgl64.Vec3{jitter(cfg.StartJitter), 0, jitter(cfg.StartJitter)})

		result, err := runOnce(ctx, &c, reg)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Forward: c.Scene.Forward,
			Start:   c.Scene.Start,
			Outcome: Classify(result.Samples),
			Final:   result.Final(),
		})

		if (trial+1)%10 == 0 {
			log.Infof("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts outcomes.
func MonteCarloStats(results []MonteCarloResult) map[Outcome]int {
	counts := map[Outcome]int{OutcomeNone: 0, OutcomePlaced: 0, OutcomeTossed: 0}
	for _, r := range results {
		counts[r.Outcome]++
	}
	return counts
}
