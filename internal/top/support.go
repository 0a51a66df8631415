package top

import "github.com/go-gl/mathgl/mgl64"

// Support reports how EdgeSupport treated a placement candidate.
type Support int

const (
	// SupportNone: no surface collider near the candidate.
	SupportNone Support = iota
	// SupportResting: the candidate is already on or inside the collider.
	SupportResting
	// SupportSnapped: the candidate moved to the collider's closest point.
	SupportSnapped
)

func (s Support) String() string {
	switch s {
	case SupportNone:
		return "none"
	case SupportResting:
		return "resting"
	case SupportSnapped:
		return "snapped"
	}
	return "unknown"
}

const supportEpsilon = 1e-6

// EdgeSupport corrects a placement candidate against the surface colliders
// overlapping a sphere around it. Only the first collider is consulted.
func EdgeSupport(p Physics, candidate mgl64.Vec3, radius float64, mask LayerMask) (mgl64.Vec3, Support) {
	cols := p.OverlapSphere(candidate, radius, mask)
	if len(cols) == 0 {
		return candidate, SupportNone
	}
	closest := cols[0].ClosestPoint(candidate)
	if closest.ApproxEqualThreshold(candidate, supportEpsilon) {
		return candidate, SupportResting
	}
	return closest, SupportSnapped
}
