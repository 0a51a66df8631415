package top

import "github.com/go-gl/mathgl/mgl64"

// ForceMode selects how AddForce is interpreted by the physics engine.
type ForceMode int

const (
	// ForceModeForce is a continuous force integrated over the step.
	ForceModeForce ForceMode = iota
	// ForceModeImpulse is an instantaneous change in momentum.
	ForceModeImpulse
)

func (m ForceMode) String() string {
	switch m {
	case ForceModeForce:
		return "force"
	case ForceModeImpulse:
		return "impulse"
	}
	return "unknown"
}

// LayerMask filters colliders in physics queries. A zero mask matches nothing.
type LayerMask uint32

const (
	LayerDefault LayerMask = 1 << iota
	LayerSurface
	LayerProp
)

func (m LayerMask) Has(layer LayerMask) bool { return m&layer != 0 }

// Body is the rigid body the controller drives.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	Kinematic() bool
	SetKinematic(kinematic bool)
	CenterOfMass() mgl64.Vec3
	SetCenterOfMass(offset mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(w mgl64.Vec3)
	AddForce(f mgl64.Vec3, mode ForceMode)
}

type Collider interface {
	ClosestPoint(p mgl64.Vec3) mgl64.Vec3
}

type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Collider Collider
}

type Physics interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask LayerMask) (Hit, bool)
	// OverlapSphere returns the colliders touching the sphere, nearest first.
	OverlapSphere(center mgl64.Vec3, radius float64, mask LayerMask) []Collider
}

// Holder is the pickup subsystem that decides what is held.
type Holder interface {
	Held() Body
	PickedUp() bool
	// Release breaks the grab connection.
	Release()
	// Eye returns the viewpoint origin and unit forward direction.
	Eye() (origin, forward mgl64.Vec3)
}

type Subscription interface {
	Close() error
}

type InputSource interface {
	OnUse(fn func()) Subscription
}
