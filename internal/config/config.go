package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/input"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/top"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameDt       = 1.0 / 60
	DefaultFixedDt       = 1.0 / 120
	DefaultDuration      = 12.0
	DefaultMaxFixedSteps = 8
	DefaultScene         = "table"
	DefaultMass          = 0.1
	DefaultUseAt         = 1.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Sim   SimConfig   `yaml:"sim"`
	Top   top.Config  `yaml:"top"`
	Scene SceneConfig `yaml:"scene"`
}

type SimConfig struct {
	FrameDt       float64 `yaml:"frame_dt"`
	FixedDt       float64 `yaml:"fixed_dt"`
	Duration      float64 `yaml:"duration"`
	Seed          int64   `yaml:"seed"`
	MaxFixedSteps int     `yaml:"max_fixed_steps"`
}

type SceneConfig struct {
	Name     string     `yaml:"name"`
	Eye      mgl64.Vec3 `yaml:"eye"`
	Forward  mgl64.Vec3 `yaml:"forward"`
	Start    mgl64.Vec3 `yaml:"start"`
	Mass     float64    `yaml:"mass"`
	UseAt    []float64  `yaml:"use_at"`
	PickupAt []float64  `yaml:"pickup_at"`
}

func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			FrameDt:       DefaultFrameDt,
			FixedDt:       DefaultFixedDt,
			Duration:      DefaultDuration,
			MaxFixedSteps: DefaultMaxFixedSteps,
		},
		Top: top.DefaultConfig(),
		Scene: SceneConfig{
			Name:     DefaultScene,
			Eye:      mgl64.Vec3{0, 1.5, 0},
			Forward:  mgl64.Vec3{0, -0.7, -1},
			Start:    mgl64.Vec3{0.3, 0.82, -1},
			Mass:     DefaultMass,
			UseAt:    []float64{DefaultUseAt},
			PickupAt: []float64{0},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Loop().Validate(); err != nil {
		return fmt.Errorf("%w: sim: %v", ErrInvalid, err)
	}
	if c.Sim.MaxFixedSteps < 0 {
		return fmt.Errorf("%w: sim: max_fixed_steps must not be negative", ErrInvalid)
	}
	if err := c.Top.Validate(); err != nil {
		return fmt.Errorf("%w: top: %v", ErrInvalid, err)
	}
	if c.Scene.Name == "" {
		return fmt.Errorf("%w: scene: name is required", ErrInvalid)
	}
	if c.Scene.Mass <= 0 {
		return fmt.Errorf("%w: scene: mass must be positive, got %f", ErrInvalid, c.Scene.Mass)
	}
	if c.Scene.Forward.Len() == 0 {
		return fmt.Errorf("%w: scene: forward must not be zero", ErrInvalid)
	}
	for _, at := range append(append([]float64{}, c.Scene.UseAt...), c.Scene.PickupAt...) {
		if at < 0 {
			return fmt.Errorf("%w: scene: event time %.3f is negative", ErrInvalid, at)
		}
	}
	return nil
}

// Loop converts the sim section for sim.Loop.
func (c *Config) Loop() sim.Config {
	return sim.Config{
		Dt:            c.Sim.FrameDt,
		FixedDt:       c.Sim.FixedDt,
		Duration:      c.Sim.Duration,
		Seed:          c.Sim.Seed,
		MaxFixedSteps: c.Sim.MaxFixedSteps,
		ValidateState: true,
	}
}

// Events returns the scripted pickups and uses.
func (s SceneConfig) Events() []input.Event {
	events := make([]input.Event, 0, len(s.UseAt)+len(s.PickupAt))
	for _, at := range s.PickupAt {
		events = append(events, input.Event{At: at, Action: input.ActionGrab})
	}
	for _, at := range s.UseAt {
		events = append(events, input.Event{At: at, Action: input.ActionUse})
	}
	return events
}
