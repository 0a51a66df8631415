package top

import "github.com/go-gl/mathgl/mgl64"

var localUp = mgl64.Vec3{0, 1, 0}

func (c *Controller) startSpin() {
	up := c.body.Rotation().Rotate(localUp)
	c.body.SetAngularVelocity(up.Mul(c.cfg.SpinVelocity))
	c.spinning = true
	c.push.next = c.clock

	d := c.fallTime()
	c.body.SetCenterOfMass(c.balance.start(c.cfg.UnstableCenterOfMass, c.cfg.StableCenterOfMass, c.curve, d))
	c.setPhase(PhaseSettling)
	c.log.Debugf("spin started at %.1f rad/s, settling over %.2fs", c.cfg.SpinVelocity, d)
}

func (c *Controller) stopSpin() {
	c.spinning = false
	c.balance.active = false
	c.push.active = false
	c.push.applied = mgl64.Vec3{}
}

// driveSpin holds the angular speed at SpinVelocity around the body's up
// axis. A body whose spin has decayed to the threshold is left alone.
func (c *Controller) driveSpin() {
	if c.body.AngularVelocity().Len() <= c.cfg.SpinThreshold {
		return
	}
	up := c.body.Rotation().Rotate(localUp)
	c.body.SetAngularVelocity(up.Mul(c.cfg.SpinVelocity))
}
