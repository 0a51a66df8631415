package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/top"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 64

func TestRaycastPicksNearestInMask(t *testing.T) {
	w := NewWorld()
	ground := NewGround(0)
	table := NewBox(mgl64.Vec3{0, 0.4, -2}, mgl64.Vec3{0.5, 0.4, 0.5}, top.LayerSurface)
	prop := NewBox(mgl64.Vec3{0, 1, -1}, mgl64.Vec3{0.1, 0.1, 0.1}, top.LayerProp)
	w.AddCollider(ground)
	w.AddCollider(table)
	w.AddCollider(prop)

	dir := mgl64.Vec3{0, -0.8, -2}
	hit, ok := w.Raycast(mgl64.Vec3{0, 1.6, 0}, dir, 10, top.LayerSurface)
	require.True(t, ok)
	assert.Same(t, table, hit.Collider)
	assert.InDelta(t, 0.8, hit.Point.Y(), 1e-9)
	assert.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{0, 1, 0}))
	assert.InDelta(t, hit.Point.Sub(mgl64.Vec3{0, 1.6, 0}).Len(), hit.Distance, 1e-9)

	_, ok = w.Raycast(mgl64.Vec3{0, 1.6, 0}, dir, 0.5, top.LayerSurface)
	assert.False(t, ok, "out of reach")

	_, ok = w.Raycast(mgl64.Vec3{0, 1.6, 0}, mgl64.Vec3{0, 1, 0}, 10, top.LayerSurface|top.LayerProp)
	assert.False(t, ok, "looking up")

	_, ok = w.Raycast(mgl64.Vec3{0, 1.6, 0}, mgl64.Vec3{}, 10, top.LayerSurface)
	assert.False(t, ok, "zero direction")
}

func TestRaycastSphere(t *testing.T) {
	w := NewWorld()
	ball := &Sphere{Center: mgl64.Vec3{0, 0, -5}, Radius: 1, Mask: top.LayerSurface}
	w.AddCollider(ball)

	hit, ok := w.Raycast(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, 10, top.LayerSurface)
	require.True(t, ok)
	assert.InDelta(t, 4, hit.Distance, 1e-9)
	assert.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{0, 0, 1}))
}

func TestOverlapSphereOrdersByDistance(t *testing.T) {
	w := NewWorld()
	far := NewBox(mgl64.Vec3{0.2, 0, 0}, mgl64.Vec3{0.1, 0.1, 0.1}, top.LayerSurface)
	near := NewBox(mgl64.Vec3{-0.15, 0, 0}, mgl64.Vec3{0.1, 0.1, 0.1}, top.LayerSurface)
	w.AddCollider(far)
	w.AddCollider(near)
	w.AddCollider(NewBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, top.LayerProp))

	got := w.OverlapSphere(mgl64.Vec3{}, 0.2, top.LayerSurface)
	require.Len(t, got, 2)
	assert.Same(t, near, got[0])
	assert.Same(t, far, got[1])

	assert.Empty(t, w.OverlapSphere(mgl64.Vec3{0, 5, 0}, 0.2, top.LayerSurface))
}

func TestClosestPoint(t *testing.T) {
	box := NewBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, top.LayerSurface)
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, box.ClosestPoint(mgl64.Vec3{2, 3, 0}))
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0}, box.ClosestPoint(mgl64.Vec3{0.5, 0, 0}))

	ground := NewGround(0)
	assert.Equal(t, mgl64.Vec3{1, 0, 2}, ground.ClosestPoint(mgl64.Vec3{1, 3, 2}))

	ball := &Sphere{Radius: 2}
	assert.True(t, ball.ClosestPoint(mgl64.Vec3{0, 4, 0}).ApproxEqual(mgl64.Vec3{0, 2, 0}))
}

func TestBoxSurfaceFromInside(t *testing.T) {
	box := NewBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, top.LayerSurface)
	point, n := box.Surface(mgl64.Vec3{0.2, 0.9, 0})
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, n)
	assert.Equal(t, mgl64.Vec3{0.2, 1, 0}, point)
}

func TestBodyFallsAndRests(t *testing.T) {
	w := NewWorld()
	w.AddCollider(NewGround(0))
	b := NewRigidBody(0.1)
	b.SetPosition(mgl64.Vec3{0, 1, 0})
	w.AddBody(b)

	for i := 0; i < 5*64; i++ {
		w.Step(dt)
	}

	assert.InDelta(t, b.Radius, b.Position().Y(), 1e-6)
	assert.True(t, b.Resting())
	assert.InDelta(t, 0, b.Velocity().Len(), 1e-6)
}

func TestKinematicBodyIgnoresForces(t *testing.T) {
	w := NewWorld()
	b := NewRigidBody(1)
	b.SetPosition(mgl64.Vec3{0, 2, 0})
	b.SetKinematic(true)
	w.AddBody(b)

	b.AddForce(mgl64.Vec3{10, 0, 0}, top.ForceModeImpulse)
	b.SetAngularVelocity(mgl64.Vec3{0, 30, 0})
	w.Step(dt)

	assert.Equal(t, mgl64.Vec3{0, 2, 0}, b.Position())
	assert.Equal(t, mgl64.Vec3{}, b.AngularVelocity())
}

func TestImpulseChangesVelocity(t *testing.T) {
	b := NewRigidBody(0.5)
	b.AddForce(mgl64.Vec3{0, 0, -3}, top.ForceModeImpulse)
	assert.Equal(t, mgl64.Vec3{0, 0, -6}, b.Velocity())

	b.AddForce(mgl64.Vec3{1, 0, 0}, top.ForceModeForce)
	assert.Equal(t, mgl64.Vec3{0, 0, -6}, b.Velocity(), "forces wait for the step")
}

func TestSpinKeepsBodyUpright(t *testing.T) {
	b := NewRigidBody(1)
	b.AngularDamping = 0
	b.SetAngularVelocity(mgl64.Vec3{0, 30, 0})
	for i := 0; i < 64; i++ {
		b.Integrate(dt, mgl64.Vec3{})
	}
	assert.InDelta(t, 0, Tilt(b), 1e-6)
	assert.InDelta(t, 1, b.Rotation().Len(), 1e-9)
}

func TestCenterOfMassTipsOrRights(t *testing.T) {
	run := func(com mgl64.Vec3) float64 {
		w := NewWorld()
		w.AddCollider(NewGround(0))
		b := NewRigidBody(0.1)
		b.SetPosition(mgl64.Vec3{0, b.Radius, 0})
		b.SetRotation(mgl64.QuatRotate(0.05, mgl64.Vec3{0, 0, 1}))
		b.SetCenterOfMass(com)
		w.AddBody(b)
		// one step to land, then a few under torque
		for i := 0; i < 10; i++ {
			w.Step(dt)
		}
		return Tilt(b)
	}

	assert.Greater(t, run(mgl64.Vec3{0, 0.1, 0}), 0.05, "raised center of mass tips over")
	assert.Less(t, run(mgl64.Vec3{0, -0.05, 0}), 0.05, "lowered center of mass rights")
}

func TestTilt(t *testing.T) {
	b := NewRigidBody(1)
	assert.InDelta(t, 0, Tilt(b), 1e-12)
	b.SetRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}))
	assert.InDelta(t, math.Pi/2, Tilt(b), 1e-9)
}
