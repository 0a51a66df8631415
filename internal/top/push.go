package top

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/curve"
)

type pushState struct {
	dir      mgl64.Vec3
	elapsed  float64
	fraction float64
	applied  mgl64.Vec3
	active   bool
	next     float64
	count    int
}

func (p *pushState) begin(dir mgl64.Vec3, next float64) {
	p.dir = dir
	p.elapsed = 0
	p.fraction = 0
	p.active = true
	p.next = next
	p.count++
}

// ramp advances the push by dt and returns the clamped ramp fraction.
func (p *pushState) ramp(dt, rampTime float64) float64 {
	p.elapsed += dt
	p.fraction = curve.Clamp01(p.elapsed / rampTime)
	return p.fraction
}

func (c *Controller) perturb(now, dt float64) {
	if now >= c.push.next {
		c.push.begin(c.randomHorizontal(), now+c.cfg.PushInterval)
	}
	if !c.push.active {
		c.push.applied = mgl64.Vec3{}
		return
	}

	f := c.push.ramp(dt, c.cfg.PushRampTime)
	force := c.push.dir.Mul(c.cfg.PushForce * f)
	c.body.AddForce(force, ForceModeForce)
	c.push.applied = force
	if f >= 1 {
		c.push.active = false
	}
}

// randomHorizontal samples the unit disk and returns a unit vector on the
// XZ plane.
func (c *Controller) randomHorizontal() mgl64.Vec3 {
	for {
		x := c.rng.Float64()*2 - 1
		z := c.rng.Float64()*2 - 1
		d2 := x*x + z*z
		if d2 > 1e-12 && d2 <= 1 {
			return mgl64.Vec3{x, 0, z}.Normalize()
		}
	}
}
