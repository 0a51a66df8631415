package top

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/curve"
)

var (
	// ErrNoBody is returned by New when no rigid body is supplied.
	ErrNoBody = errors.New("top: no rigid body")

	// ErrNoPhysics is returned by New when no physics queries are supplied.
	ErrNoPhysics = errors.New("top: no physics engine")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("top: invalid config")
)

const (
	DefaultSpinVelocity      = 30.0
	DefaultSpinThreshold     = 0.1
	DefaultTossForce         = 3.0
	DefaultPlaceDistance     = 3.0
	DefaultPlacementHeight   = 0.1
	DefaultPlacementDuration = 0.5
	DefaultSupportRadius     = 0.05
	DefaultMinFallTime       = 4.0
	DefaultMaxFallTime       = 8.0
	DefaultPushForce         = 0.2
	DefaultPushInterval      = 1.5
	DefaultPushRampTime      = 0.5
)

type Config struct {
	SpinVelocity  float64 `yaml:"spin_velocity"`
	SpinThreshold float64 `yaml:"spin_threshold"`
	TossForce     float64 `yaml:"toss_force"`

	PlaceDistance     float64   `yaml:"place_distance"`
	PlacementHeight   float64   `yaml:"placement_height"`
	PlacementDuration float64   `yaml:"placement_duration"`
	SupportRadius     float64   `yaml:"support_radius"`
	SurfaceMask       LayerMask `yaml:"surface_mask"`

	MinFallTime          float64    `yaml:"min_fall_time"`
	MaxFallTime          float64    `yaml:"max_fall_time"`
	UnstableCenterOfMass mgl64.Vec3 `yaml:"unstable_com"`
	StableCenterOfMass   mgl64.Vec3 `yaml:"stable_com"`
	Curve                curve.Spec `yaml:"curve"`

	PushForce    float64 `yaml:"push_force"`
	PushInterval float64 `yaml:"push_interval"`
	PushRampTime float64 `yaml:"push_ramp_time"`
}

func DefaultConfig() Config {
	return Config{
		SpinVelocity:         DefaultSpinVelocity,
		SpinThreshold:        DefaultSpinThreshold,
		TossForce:            DefaultTossForce,
		PlaceDistance:        DefaultPlaceDistance,
		PlacementHeight:      DefaultPlacementHeight,
		PlacementDuration:    DefaultPlacementDuration,
		SupportRadius:        DefaultSupportRadius,
		SurfaceMask:          LayerSurface,
		MinFallTime:          DefaultMinFallTime,
		MaxFallTime:          DefaultMaxFallTime,
		UnstableCenterOfMass: mgl64.Vec3{0, 0.1, 0},
		StableCenterOfMass:   mgl64.Vec3{0, -0.05, 0},
		Curve:                curve.Spec{Type: "ease_in_out"},
		PushForce:            DefaultPushForce,
		PushInterval:         DefaultPushInterval,
		PushRampTime:         DefaultPushRampTime,
	}
}

// Validate rejects non-finite values and out-of-range fields. Spin velocity
// is a speed about the body's up axis and must be positive.
func (c Config) Validate() error {
	scalars := []struct {
		name string
		v    float64
	}{
		{"spin_velocity", c.SpinVelocity},
		{"spin_threshold", c.SpinThreshold},
		{"toss_force", c.TossForce},
		{"place_distance", c.PlaceDistance},
		{"placement_height", c.PlacementHeight},
		{"placement_duration", c.PlacementDuration},
		{"support_radius", c.SupportRadius},
		{"min_fall_time", c.MinFallTime},
		{"max_fall_time", c.MaxFallTime},
		{"push_force", c.PushForce},
		{"push_interval", c.PushInterval},
		{"push_ramp_time", c.PushRampTime},
	}
	for _, p := range scalars {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %f", ErrInvalidConfig, p.name, p.v)
		}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"spin_velocity", c.SpinVelocity},
		{"placement_duration", c.PlacementDuration},
		{"push_interval", c.PushInterval},
		{"push_ramp_time", c.PushRampTime},
		{"place_distance", c.PlaceDistance},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %f", ErrInvalidConfig, p.name, p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"spin_threshold", c.SpinThreshold},
		{"support_radius", c.SupportRadius},
		{"push_force", c.PushForce},
		{"toss_force", c.TossForce},
	}
	for _, p := range nonNegative {
		if p.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %f", ErrInvalidConfig, p.name, p.v)
		}
	}

	if c.MinFallTime <= 0 {
		return fmt.Errorf("%w: min_fall_time must be positive, got %f", ErrInvalidConfig, c.MinFallTime)
	}
	if c.MaxFallTime < c.MinFallTime {
		return fmt.Errorf("%w: max_fall_time %f below min_fall_time %f", ErrInvalidConfig, c.MaxFallTime, c.MinFallTime)
	}
	if _, err := c.Curve.Build(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
