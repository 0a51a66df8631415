package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidConfig wraps every loop configuration failure.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrInvalidState is wrapped by the SimError recorded when a sample
	// carries NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state")
)

// Sample is the observable state of the scene after one frame.
type Sample struct {
	Time         float64    `json:"time"`
	Position     mgl64.Vec3 `json:"position"`
	Tilt         float64    `json:"tilt"`
	AngularSpeed float64    `json:"angular_speed"`
	CenterOfMass mgl64.Vec3 `json:"center_of_mass"`
	Phase        string     `json:"phase"`
	Spinning     bool       `json:"spinning"`
	PushActive   bool       `json:"push_active"`
	PushForce    float64    `json:"push_force"`
}

func (s Sample) IsValid() bool {
	for _, v := range [...]float64{
		s.Position.X(), s.Position.Y(), s.Position.Z(),
		s.Tilt, s.AngularSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Scene is what the loop drives: fixed physics steps, then one frame
// update, then a sample.
type Scene interface {
	Fixed(dt float64)
	Frame(t, dt float64)
	Sample(t float64) Sample
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnSample(s Sample) { f(s) }

type Config struct {
	Dt       float64
	FixedDt  float64
	Duration float64
	Seed     int64

	// MaxFixedSteps caps physics steps per frame; leftover time is dropped.
	// Zero means no cap.
	MaxFixedSteps int

	// ValidateState stops the run on a NaN or infinite sample.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		FixedDt:       1.0 / 120,
		Duration:      12.0,
		MaxFixedSteps: 8,
		ValidateState: true,
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	Frames     int
	FixedSteps int
	Errors     []error
}

// Final returns the last sample, or a zero sample for an empty run.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Series extracts one value per sample.
func (r *Result) Series(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = f(s)
	}
	return out
}

type SimError struct {
	Time    float64
	Frame   int
	Message string
	Err     error
}

func (e SimError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame %d (t=%.4f): %s: %v", e.Frame, e.Time, e.Message, e.Err)
	}
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
