package top

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/curve"
)

// placement is the set-down sequence: position eases from start to target
// with the rotation held.
type placement struct {
	active   bool
	target   mgl64.Vec3
	start    mgl64.Vec3
	rotation mgl64.Quat
	elapsed  float64
	duration float64
}

// advance moves the sequence forward by dt. Past the duration it returns
// the exact target, never an extrapolated point.
func (p *placement) advance(dt float64) (mgl64.Vec3, bool) {
	p.elapsed += dt
	if p.elapsed >= p.duration {
		return p.target, true
	}
	s := curve.SmoothStep(p.elapsed / p.duration)
	return lerp(p.start, p.target, s), false
}

func (c *Controller) beginPlacement(hit Hit) {
	candidate := hit.Point.Add(mgl64.Vec3{0, c.cfg.PlacementHeight, 0})
	target, support := EdgeSupport(c.physics, candidate, c.cfg.SupportRadius, c.cfg.SurfaceMask)

	c.place = placement{
		active:   true,
		target:   target,
		start:    c.body.Position(),
		rotation: c.body.Rotation(),
		duration: c.cfg.PlacementDuration,
	}
	c.body.SetKinematic(true)
	c.setPhase(PhasePlacing)
	c.log.Infof("placing top at (%.3f, %.3f, %.3f), support %s", target.X(), target.Y(), target.Z(), support)
}

func (c *Controller) finishPlacement() {
	c.place.active = false
	c.body.SetPosition(c.place.target)
	c.body.SetKinematic(false)
	c.startSpin()
}

// cancelPlacement abandons the set-down without touching the body. The
// holder owns its position and kinematic flag from here on.
func (c *Controller) cancelPlacement() {
	c.place.active = false
	c.stopSpin()
	c.setPhase(PhaseIdle)
	c.log.Infof("placement cancelled, top taken back by the holder")
}

func (c *Controller) toss(forward mgl64.Vec3) {
	c.setPhase(PhaseTossed)
	dir := forward
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	c.body.AddForce(dir.Mul(c.cfg.TossForce), ForceModeImpulse)
	c.log.Infof("no surface in reach, tossing top with force %.2f", c.cfg.TossForce)
	c.startSpin()
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
