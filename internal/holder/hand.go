// Package holder is a minimal pickup subsystem: a hand in front of a
// viewpoint that carries one body at a time.
package holder

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/top"
)

const (
	DefaultReach     = 0.6
	DefaultGrabDelay = 0.2
)

// Hand carries a body kinematically at Reach in front of the eye. A grab
// counts as picked up once GrabDelay has passed.
type Hand struct {
	Reach     float64
	GrabDelay float64

	origin  mgl64.Vec3
	forward mgl64.Vec3

	held     top.Body
	holding  float64
	pickedUp bool
}

func NewHand(origin, forward mgl64.Vec3) *Hand {
	h := &Hand{Reach: DefaultReach, GrabDelay: DefaultGrabDelay}
	h.Look(origin, forward)
	return h
}

// Look moves the eye. A zero forward keeps the previous direction.
func (h *Hand) Look(origin, forward mgl64.Vec3) {
	h.origin = origin
	if forward.Len() > 0 {
		h.forward = forward.Normalize()
	}
}

func (h *Hand) Eye() (mgl64.Vec3, mgl64.Vec3) { return h.origin, h.forward }
func (h *Hand) Held() top.Body                 { return h.held }
func (h *Hand) PickedUp() bool                 { return h.held != nil && h.pickedUp }

// Grab takes b into the hand, dropping whatever was held before.
func (h *Hand) Grab(b top.Body) {
	if b == nil {
		return
	}
	if h.held != nil && h.held != b {
		h.Release()
	}
	h.held = b
	h.holding = 0
	h.pickedUp = h.GrabDelay <= 0
	b.SetKinematic(true)
	stop(b)
	b.SetPosition(h.HoldPoint())
}

func (h *Hand) Release() {
	if h.held == nil {
		return
	}
	h.held.SetKinematic(false)
	stop(h.held)
	h.held = nil
	h.pickedUp = false
}

// Update carries the held body along with the eye.
func (h *Hand) Update(dt float64) {
	if h.held == nil {
		return
	}
	h.holding += dt
	if h.holding >= h.GrabDelay {
		h.pickedUp = true
	}
	h.held.SetPosition(h.HoldPoint())
}

// stop drops linear velocity on bodies that expose it, so a body leaves the
// hand at rest.
func stop(b top.Body) {
	if v, ok := b.(interface{ SetVelocity(mgl64.Vec3) }); ok {
		v.SetVelocity(mgl64.Vec3{})
	}
}

func (h *Hand) HoldPoint() mgl64.Vec3 {
	return h.origin.Add(h.forward.Mul(h.Reach))
}
