package top

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

type forceCall struct {
	f    mgl64.Vec3
	mode ForceMode
}

type fakeBody struct {
	pos       mgl64.Vec3
	rot       mgl64.Quat
	kinematic bool
	com       mgl64.Vec3
	w         mgl64.Vec3
	forces    []forceCall

	kinematicHistory []bool
	ops              []string
}

func newFakeBody() *fakeBody {
	return &fakeBody{rot: mgl64.QuatIdent()}
}

func (b *fakeBody) Position() mgl64.Vec3          { return b.pos }
func (b *fakeBody) SetPosition(p mgl64.Vec3)      { b.pos = p }
func (b *fakeBody) Rotation() mgl64.Quat          { return b.rot }
func (b *fakeBody) SetRotation(q mgl64.Quat)      { b.rot = q }
func (b *fakeBody) Kinematic() bool               { return b.kinematic }
func (b *fakeBody) CenterOfMass() mgl64.Vec3      { return b.com }
func (b *fakeBody) SetCenterOfMass(c mgl64.Vec3)  { b.com = c }
func (b *fakeBody) AngularVelocity() mgl64.Vec3   { return b.w }

func (b *fakeBody) SetKinematic(k bool) {
	b.kinematic = k
	b.kinematicHistory = append(b.kinematicHistory, k)
}

func (b *fakeBody) SetAngularVelocity(w mgl64.Vec3) {
	b.w = w
	b.ops = append(b.ops, "spin")
}

func (b *fakeBody) AddForce(f mgl64.Vec3, mode ForceMode) {
	b.forces = append(b.forces, forceCall{f, mode})
	b.ops = append(b.ops, "force:"+mode.String())
}

func (b *fakeBody) forcesOf(mode ForceMode) []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, c := range b.forces {
		if c.mode == mode {
			out = append(out, c.f)
		}
	}
	return out
}

type pointCollider struct {
	closest func(p mgl64.Vec3) mgl64.Vec3
}

func (c pointCollider) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 { return c.closest(p) }

type rayCall struct {
	origin, dir mgl64.Vec3
	maxDist     float64
	mask        LayerMask
}

type fakePhysics struct {
	hit      *Hit
	overlaps []Collider
	rays     []rayCall
}

func (p *fakePhysics) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask LayerMask) (Hit, bool) {
	p.rays = append(p.rays, rayCall{origin, dir, maxDist, mask})
	if p.hit == nil {
		return Hit{}, false
	}
	return *p.hit, true
}

func (p *fakePhysics) OverlapSphere(center mgl64.Vec3, radius float64, mask LayerMask) []Collider {
	return p.overlaps
}

type fakeHolder struct {
	held     Body
	pickedUp bool
	releases int
	origin   mgl64.Vec3
	forward  mgl64.Vec3
}

func (h *fakeHolder) Held() Body     { return h.held }
func (h *fakeHolder) PickedUp() bool { return h.pickedUp }

func (h *fakeHolder) Release() {
	h.releases++
	h.held = nil
	h.pickedUp = false
}

func (h *fakeHolder) Eye() (mgl64.Vec3, mgl64.Vec3) { return h.origin, h.forward }

func (h *fakeHolder) grab(b Body) {
	h.held = b
	h.pickedUp = true
}

type fakeInput struct {
	handlers map[int]func()
	nextID   int
	closeErr error
}

func newFakeInput() *fakeInput {
	return &fakeInput{handlers: make(map[int]func())}
}

func (in *fakeInput) OnUse(fn func()) Subscription {
	id := in.nextID
	in.nextID++
	in.handlers[id] = fn
	return &fakeSub{in: in, id: id}
}

func (in *fakeInput) fire() {
	for _, fn := range in.handlers {
		fn()
	}
}

type fakeSub struct {
	in     *fakeInput
	id     int
	closed bool
}

func (s *fakeSub) Close() error {
	if s.closed {
		return errors.New("already closed")
	}
	s.closed = true
	delete(s.in.handlers, s.id)
	return s.in.closeErr
}

// constCurve returns a fixed blend weight regardless of t.
type constCurve float64

func (c constCurve) Evaluate(float64) float64 { return float64(c) }
