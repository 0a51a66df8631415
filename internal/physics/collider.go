package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/top"
)

// Shape is a static collider the world can query.
type Shape interface {
	top.Collider
	Layer() top.LayerMask
	// Surface returns the nearest boundary point to q and the outward normal
	// there, also when q is inside the shape.
	Surface(q mgl64.Vec3) (point, normal mgl64.Vec3)
	// Raycast intersects a ray with a unit direction, returning the entry
	// distance and surface normal.
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (dist float64, normal mgl64.Vec3, ok bool)
}

// Plane is an infinite plane through Origin.
type Plane struct {
	Origin mgl64.Vec3
	Normal mgl64.Vec3
	Mask   top.LayerMask
}

func NewGround(height float64) *Plane {
	return &Plane{Origin: mgl64.Vec3{0, height, 0}, Normal: worldUp, Mask: top.LayerSurface}
}

func (p *Plane) Layer() top.LayerMask { return p.Mask }

func (p *Plane) ClosestPoint(q mgl64.Vec3) mgl64.Vec3 {
	n := p.Normal.Normalize()
	d := q.Sub(p.Origin).Dot(n)
	if d <= 0 {
		return q
	}
	return q.Sub(n.Mul(d))
}

func (p *Plane) Surface(q mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	n := p.Normal.Normalize()
	return q.Sub(n.Mul(q.Sub(p.Origin).Dot(n))), n
}

func (p *Plane) Raycast(origin, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	n := p.Normal.Normalize()
	denom := dir.Dot(n)
	if denom >= -1e-12 {
		return 0, mgl64.Vec3{}, false
	}
	t := p.Origin.Sub(origin).Dot(n) / denom
	if t < 0 || t > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	return t, n, true
}

// Box is an axis-aligned solid box.
type Box struct {
	Min, Max mgl64.Vec3
	Mask     top.LayerMask
}

func NewBox(center, halfExtents mgl64.Vec3, mask top.LayerMask) *Box {
	return &Box{Min: center.Sub(halfExtents), Max: center.Add(halfExtents), Mask: mask}
}

func (b *Box) Layer() top.LayerMask { return b.Mask }

func (b *Box) ClosestPoint(q mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		out[i] = mgl64.Clamp(q[i], b.Min[i], b.Max[i])
	}
	return out
}

func (b *Box) Surface(q mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	cp := b.ClosestPoint(q)
	if d := q.Sub(cp); d.Len() > 1e-12 {
		return cp, d.Normalize()
	}

	// inside: project onto the nearest face
	best, axis, sign := math.Inf(1), 1, 1.0
	for i := 0; i < 3; i++ {
		if d := q[i] - b.Min[i]; d < best {
			best, axis, sign = d, i, -1
		}
		if d := b.Max[i] - q[i]; d < best {
			best, axis, sign = d, i, 1
		}
	}
	point := q
	var n mgl64.Vec3
	n[axis] = sign
	if sign > 0 {
		point[axis] = b.Max[axis]
	} else {
		point[axis] = b.Min[axis]
	}
	return point, n
}

// Raycast uses the slab test. Rays starting inside the box report no hit.
func (b *Box) Raycast(origin, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	tMin, tMax := 0.0, maxDist
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tMin {
			tMin, axis, sign = t1, i, s
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}
	if axis < 0 {
		return 0, mgl64.Vec3{}, false
	}
	var n mgl64.Vec3
	n[axis] = sign
	return tMin, n, true
}

type Sphere struct {
	Center mgl64.Vec3
	Radius float64
	Mask   top.LayerMask
}

func (s *Sphere) Layer() top.LayerMask { return s.Mask }

func (s *Sphere) ClosestPoint(q mgl64.Vec3) mgl64.Vec3 {
	d := q.Sub(s.Center)
	if d.Len() <= s.Radius {
		return q
	}
	return s.Center.Add(d.Normalize().Mul(s.Radius))
}

func (s *Sphere) Surface(q mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	n := worldUp
	if d := q.Sub(s.Center); d.Len() > 1e-12 {
		n = d.Normalize()
	}
	return s.Center.Add(n.Mul(s.Radius)), n
}

func (s *Sphere) Raycast(origin, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	oc := origin.Sub(s.Center)
	bq := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	if c <= 0 {
		return 0, mgl64.Vec3{}, false
	}
	disc := bq*bq - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := -bq - math.Sqrt(disc)
	if t < 0 || t > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	n := origin.Add(dir.Mul(t)).Sub(s.Center).Normalize()
	return t, n, true
}
