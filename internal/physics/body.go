package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/top"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// RigidBody is a single rigid body with a spherical contact tip of Radius
// at its position. Inertia is a scalar moment about the contact point.
type RigidBody struct {
	Mass           float64
	Inertia        float64
	Radius         float64
	LinearDamping  float64
	AngularDamping float64

	pos       mgl64.Vec3
	vel       mgl64.Vec3
	rot       mgl64.Quat
	w         mgl64.Vec3
	com       mgl64.Vec3
	kinematic bool

	force   mgl64.Vec3
	torque  mgl64.Vec3
	resting bool
}

func NewRigidBody(mass float64) *RigidBody {
	return &RigidBody{
		Mass:           mass,
		Inertia:        0.01,
		Radius:         0.02,
		LinearDamping:  0.05,
		AngularDamping: 0.02,
		rot:            mgl64.QuatIdent(),
	}
}

func (b *RigidBody) Position() mgl64.Vec3         { return b.pos }
func (b *RigidBody) SetPosition(p mgl64.Vec3)     { b.pos = p }
func (b *RigidBody) Rotation() mgl64.Quat         { return b.rot }
func (b *RigidBody) SetRotation(q mgl64.Quat)     { b.rot = q.Normalize() }
func (b *RigidBody) Kinematic() bool              { return b.kinematic }
func (b *RigidBody) CenterOfMass() mgl64.Vec3     { return b.com }
func (b *RigidBody) SetCenterOfMass(c mgl64.Vec3) { b.com = c }
func (b *RigidBody) AngularVelocity() mgl64.Vec3  { return b.w }
func (b *RigidBody) Velocity() mgl64.Vec3         { return b.vel }
func (b *RigidBody) SetVelocity(v mgl64.Vec3)     { b.vel = v }
func (b *RigidBody) Resting() bool                { return b.resting }
func (b *RigidBody) Up() mgl64.Vec3               { return b.rot.Rotate(worldUp) }

// SetKinematic switches between scripted and simulated motion. Entering
// kinematic mode drops all velocity and pending forces.
func (b *RigidBody) SetKinematic(k bool) {
	b.kinematic = k
	if k {
		b.vel, b.w = mgl64.Vec3{}, mgl64.Vec3{}
		b.force, b.torque = mgl64.Vec3{}, mgl64.Vec3{}
		b.resting = false
	}
}

func (b *RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	if b.kinematic {
		return
	}
	b.w = w
}

// AddForce accumulates a force for the next step, or applies an impulse to
// the linear velocity right away. Kinematic bodies ignore both.
func (b *RigidBody) AddForce(f mgl64.Vec3, mode top.ForceMode) {
	if b.kinematic {
		return
	}
	switch mode {
	case top.ForceModeImpulse:
		b.vel = b.vel.Add(f.Mul(1 / b.Mass))
	default:
		b.force = b.force.Add(f)
	}
}

func (b *RigidBody) AddTorque(t mgl64.Vec3) {
	if b.kinematic {
		return
	}
	b.torque = b.torque.Add(t)
}

// Integrate advances the body by dt with semi-implicit Euler and clears the
// accumulators.
func (b *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	defer b.clearAccumulators()
	if b.kinematic {
		return
	}

	acc := gravity.Add(b.force.Mul(1 / b.Mass))
	b.vel = b.vel.Add(acc.Mul(dt)).Mul(1 / (1 + dt*b.LinearDamping))
	b.pos = b.pos.Add(b.vel.Mul(dt))

	if b.Inertia > 0 {
		b.w = b.w.Add(b.torque.Mul(dt / b.Inertia))
	}
	b.w = b.w.Mul(1 / (1 + dt*b.AngularDamping))
	b.rot = integrateRotation(b.rot, b.w, dt)
}

func (b *RigidBody) clearAccumulators() {
	b.force, b.torque = mgl64.Vec3{}, mgl64.Vec3{}
}

func integrateRotation(q mgl64.Quat, w mgl64.Vec3, dt float64) mgl64.Quat {
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * dt)
	return q.Add(spin).Normalize()
}
