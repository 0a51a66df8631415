// Package curve provides easing curves mapping normalized time to a blend weight.
//
// Curves are not required to stay inside [0,1]; callers must not assume the
// output is clamped.
package curve

import (
	"fmt"
	"math"
	"sort"
)

type Curve interface {
	Evaluate(t float64) float64
}

// Func adapts a plain function to Curve.
type Func func(t float64) float64

func (f Func) Evaluate(t float64) float64 { return f(t) }

var (
	Linear    = Func(func(t float64) float64 { return t })
	EaseIn    = Func(func(t float64) float64 { return t * t })
	EaseOut   = Func(func(t float64) float64 { return t * (2 - t) })
	EaseInOut = Func(SmoothStep)
)

// SmoothStep is 0 at t<=0, 1 at t>=1, with zero slope at both ends.
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Key is a Hermite keyframe: value at time with incoming and outgoing tangents.
type Key struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
	In    float64 `yaml:"in"`
	Out   float64 `yaml:"out"`
}

// Keyed interpolates cubic Hermite segments between keys. Outside the key
// range it holds the first/last value.
type Keyed struct {
	keys []Key
}

func NewKeyed(keys ...Key) (*Keyed, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("curve: keyed curve needs at least one key")
	}
	ks := make([]Key, len(keys))
	copy(ks, keys)
	sort.Slice(ks, func(i, j int) bool { return ks[i].Time < ks[j].Time })
	for i := 1; i < len(ks); i++ {
		if ks[i].Time == ks[i-1].Time {
			return nil, fmt.Errorf("curve: duplicate key time %.4f", ks[i].Time)
		}
	}
	return &Keyed{keys: ks}, nil
}

func (k *Keyed) Evaluate(t float64) float64 {
	first, last := k.keys[0], k.keys[len(k.keys)-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	i := sort.Search(len(k.keys), func(i int) bool { return k.keys[i].Time > t }) - 1
	a, b := k.keys[i], k.keys[i+1]
	span := b.Time - a.Time
	s := (t - a.Time) / span

	s2, s3 := s*s, s*s*s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*a.Value + h10*span*a.Out + h01*b.Value + h11*span*b.In
}

func (k *Keyed) Keys() []Key {
	out := make([]Key, len(k.keys))
	copy(out, k.keys)
	return out
}

// Spec is the serialized form of a curve.
type Spec struct {
	Type string `yaml:"type"`
	Keys []Key  `yaml:"keys,omitempty"`
}

func (s Spec) Build() (Curve, error) {
	switch s.Type {
	case "", "ease_in_out", "smoothstep":
		return EaseInOut, nil
	case "linear":
		return Linear, nil
	case "ease_in":
		return EaseIn, nil
	case "ease_out":
		return EaseOut, nil
	case "keys":
		return NewKeyed(s.Keys...)
	}
	return nil, fmt.Errorf("curve: unknown type %q", s.Type)
}

// Sample evaluates c at n+1 evenly spaced points over [0,1].
func Sample(c Curve, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = c.Evaluate(float64(i) / float64(n))
	}
	return out
}

// Monotonic reports whether c never decreases over n samples.
func Monotonic(c Curve, n int) bool {
	vals := Sample(c, n)
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1]-1e-12 || math.IsNaN(vals[i]) {
			return false
		}
	}
	return true
}
