package sim

import (
	"context"
	"fmt"
)

// Loop drives a Scene with a fixed-step accumulator under a variable frame
// clock.
type Loop struct {
	metrics   []Metric
	observers []Observer
}

func New() *Loop {
	return &Loop{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }
func (l *Loop) Metrics() []Metric      { return l.metrics }

func (l *Loop) Run(ctx context.Context, scene Scene, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Samples: make([]Sample, 0, frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	clock := NewClock(cfg)
	l.record(result, scene.Sample(0))

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			l.finish(result, clock)
			return result, ctx.Err()
		default:
		}

		s := clock.Tick(scene)
		if cfg.ValidateState && !s.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: s.Time, Frame: i, Message: "NaN/Inf in sample", Err: ErrInvalidState})
			break
		}
		l.record(result, s)
	}

	l.finish(result, clock)
	return result, nil
}

func (l *Loop) record(result *Result, s Sample) {
	for _, m := range l.metrics {
		m.Observe(s)
	}
	for _, obs := range l.observers {
		obs.OnSample(s)
	}
	result.Samples = append(result.Samples, s)
}

func (l *Loop) finish(result *Result, clock *Clock) {
	result.Frames = clock.Frames()
	result.FixedSteps = clock.FixedSteps()
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Clock advances a scene one frame at a time. Loop.Run uses it for batch
// runs and the live view ticks it once per rendered frame.
type Clock struct {
	cfg    Config
	t      float64
	acc    float64
	frames int
	fixed  int
}

func NewClock(cfg Config) *Clock {
	return &Clock{cfg: cfg}
}

func (c *Clock) Time() float64   { return c.t }
func (c *Clock) Frames() int     { return c.frames }
func (c *Clock) FixedSteps() int { return c.fixed }

// Tick runs the fixed steps owed for one frame, then the frame itself, and
// returns the sample at the new time.
func (c *Clock) Tick(scene Scene) Sample {
	c.acc += c.cfg.Dt
	for n := 0; c.acc >= c.cfg.FixedDt; n++ {
		if c.cfg.MaxFixedSteps > 0 && n == c.cfg.MaxFixedSteps {
			c.acc = 0
			break
		}
		scene.Fixed(c.cfg.FixedDt)
		c.acc -= c.cfg.FixedDt
		c.fixed++
	}
	scene.Frame(c.t, c.cfg.Dt)
	c.t += c.cfg.Dt
	c.frames++
	return scene.Sample(c.t)
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.FixedDt <= 0 {
		return fmt.Errorf("%w: fixed_dt must be positive, got %f", ErrInvalidConfig, cfg.FixedDt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

// Validate reports whether cfg can drive a loop.
func (c Config) Validate() error { return validateConfig(c) }
