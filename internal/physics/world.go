package physics

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/top"
)

const DefaultGravity = 9.81

// World owns the static colliders and the simulated bodies. It implements
// top.Physics.
type World struct {
	Gravity mgl64.Vec3

	// Friction is the fraction of tangential contact velocity removed per
	// second.
	Friction float64

	colliders []Shape
	bodies    []*RigidBody
}

func NewWorld() *World {
	return &World{
		Gravity:  mgl64.Vec3{0, -DefaultGravity, 0},
		Friction: 2.0,
	}
}

func (w *World) AddCollider(s Shape)  { w.colliders = append(w.colliders, s) }
func (w *World) AddBody(b *RigidBody) { w.bodies = append(w.bodies, b) }
func (w *World) Colliders() []Shape   { return w.colliders }
func (w *World) Bodies() []*RigidBody { return w.bodies }

// Raycast returns the nearest hit among colliders whose layer is in mask.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask top.LayerMask) (top.Hit, bool) {
	if dir.Len() == 0 {
		return top.Hit{}, false
	}
	dir = dir.Normalize()

	var best top.Hit
	found := false
	for _, s := range w.colliders {
		if !mask.Has(s.Layer()) {
			continue
		}
		d, n, ok := s.Raycast(origin, dir, maxDist)
		if !ok || (found && d >= best.Distance) {
			continue
		}
		best = top.Hit{Point: origin.Add(dir.Mul(d)), Normal: n, Distance: d, Collider: s}
		found = true
	}
	return best, found
}

// OverlapSphere returns the colliders within radius of center, nearest
// first.
func (w *World) OverlapSphere(center mgl64.Vec3, radius float64, mask top.LayerMask) []top.Collider {
	type overlap struct {
		shape Shape
		dist  float64
	}
	var found []overlap
	for _, s := range w.colliders {
		if !mask.Has(s.Layer()) {
			continue
		}
		d := s.ClosestPoint(center).Sub(center).Len()
		if d <= radius {
			found = append(found, overlap{s, d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })

	out := make([]top.Collider, len(found))
	for i, o := range found {
		out[i] = o.shape
	}
	return out
}

// Step advances every body by dt. A body resting on a surface gets the
// tipping torque of gravity and applied force acting at its center of mass
// around the contact point.
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		if b.kinematic {
			b.clearAccumulators()
			continue
		}
		if b.resting {
			arm := b.rot.Rotate(b.com)
			load := b.force.Add(w.Gravity.Mul(b.Mass))
			b.AddTorque(arm.Cross(load))
		}
		b.Integrate(dt, w.Gravity)
		w.resolveContacts(b, dt)
	}
}

func (w *World) resolveContacts(b *RigidBody, dt float64) {
	b.resting = false
	for _, s := range w.colliders {
		point, n := s.Surface(b.pos)
		sd := b.pos.Sub(point).Dot(n)
		if sd >= b.Radius {
			continue
		}
		b.pos = b.pos.Add(n.Mul(b.Radius - sd))

		vn := b.vel.Dot(n)
		if vn < 0 {
			b.vel = b.vel.Sub(n.Mul(vn))
		}
		normal := n.Mul(b.vel.Dot(n))
		tangent := b.vel.Sub(normal).Mul(math.Max(0, 1-w.Friction*dt))
		b.vel = normal.Add(tangent)

		if n.Y() > 0.5 {
			b.resting = true
		}
	}
}

// Tilt is the angle in radians between the body's up axis and world up.
func Tilt(b top.Body) float64 {
	up := b.Rotation().Rotate(worldUp)
	return math.Acos(mgl64.Clamp(up.Dot(worldUp), -1, 1))
}
