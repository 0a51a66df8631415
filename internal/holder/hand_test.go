package holder

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/physics"
	"github.com/stretchr/testify/assert"
)

func TestGrabWaitsForDelay(t *testing.T) {
	h := NewHand(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 0, -2})
	b := physics.NewRigidBody(0.1)

	h.Grab(b)
	assert.True(t, b.Kinematic())
	assert.Equal(t, mgl64.Vec3{0, 1.5, -DefaultReach}, b.Position())
	assert.False(t, h.PickedUp())

	h.Update(0.125)
	assert.False(t, h.PickedUp())
	h.Update(0.125)
	assert.True(t, h.PickedUp())
	assert.Same(t, b, h.Held())
}

func TestHandFollowsEye(t *testing.T) {
	h := NewHand(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})
	b := physics.NewRigidBody(0.1)
	h.Grab(b)

	h.Look(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 0, 0})
	h.Update(0.01)

	assert.True(t, b.Position().ApproxEqual(mgl64.Vec3{1 + DefaultReach, 1, 1}))
	origin, forward := h.Eye()
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, origin)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, forward)
}

func TestReleaseDropsBody(t *testing.T) {
	h := NewHand(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})
	h.GrabDelay = 0
	b := physics.NewRigidBody(0.1)
	h.Grab(b)
	assert.True(t, h.PickedUp())

	h.Release()
	assert.Nil(t, h.Held())
	assert.False(t, h.PickedUp())
	assert.False(t, b.Kinematic())

	h.Release()
	h.Grab(nil)
	assert.Nil(t, h.Held())
}

func TestGrabSwapsBodies(t *testing.T) {
	h := NewHand(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})
	a, b := physics.NewRigidBody(0.1), physics.NewRigidBody(0.1)
	h.Grab(a)
	h.Grab(b)

	assert.False(t, a.Kinematic())
	assert.True(t, b.Kinematic())
	assert.Same(t, b, h.Held())
}

func TestBodyLeavesHandAtRest(t *testing.T) {
	h := NewHand(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})
	b := physics.NewRigidBody(0.1)
	b.SetVelocity(mgl64.Vec3{1, 2, 3})

	h.Grab(b)
	assert.Equal(t, mgl64.Vec3{}, b.Velocity())

	// something switched it dynamic while held and gravity built up speed
	b.SetKinematic(false)
	b.SetVelocity(mgl64.Vec3{0.45, -14.17, 0.17})

	h.Release()
	assert.False(t, b.Kinematic())
	assert.Equal(t, mgl64.Vec3{}, b.Velocity())
}
