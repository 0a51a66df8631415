package top

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/curve"
)

// balance relaxes the center of mass from an unstable to a stable offset.
type balance struct {
	active   bool
	from     mgl64.Vec3
	to       mgl64.Vec3
	curve    curve.Curve
	elapsed  float64
	duration float64
}

func (b *balance) start(from, to mgl64.Vec3, c curve.Curve, duration float64) mgl64.Vec3 {
	*b = balance{
		active:   true,
		from:     from,
		to:       to,
		curve:    c,
		duration: duration,
	}
	return lerp(from, to, c.Evaluate(0))
}

// advance returns the offset after dt and whether the transition finished.
// The finished offset is exactly the stable one.
func (b *balance) advance(dt float64) (mgl64.Vec3, bool) {
	b.elapsed += dt
	if b.elapsed >= b.duration {
		b.active = false
		return b.to, true
	}
	return lerp(b.from, b.to, b.curve.Evaluate(b.elapsed/b.duration)), false
}

func (b *balance) progress() float64 {
	if b.duration <= 0 {
		return 0
	}
	return curve.Clamp01(b.elapsed / b.duration)
}

func (c *Controller) fallTime() float64 {
	lo, hi := c.cfg.MinFallTime, c.cfg.MaxFallTime
	return lo + c.rng.Float64()*(hi-lo)
}

func (c *Controller) settle() {
	c.body.SetCenterOfMass(c.cfg.StableCenterOfMass)
	c.spinning = false
	c.push.active = false
	c.push.applied = mgl64.Vec3{}
	c.setPhase(PhaseIdle)
	c.log.Infof("top settled after %.2fs", c.balance.duration)
}
