package metrics

import (
	"github.com/san-kum/spintop/internal/sim"
)

// SpinEnergy is the mean rotational kinetic energy over the spinning
// samples.
type SpinEnergy struct {
	name        string
	inertia     float64
	samples     int
	totalEnergy float64
}

func NewSpinEnergy(inertia float64) *SpinEnergy {
	return &SpinEnergy{
		name:    "spin_energy",
		inertia: inertia,
	}
}

func (e *SpinEnergy) Name() string { return e.name }

func (e *SpinEnergy) Observe(x sim.Sample) {
	if !x.Spinning {
		return
	}
	e.totalEnergy += 0.5 * e.inertia * x.AngularSpeed * x.AngularSpeed
	e.samples++
}

func (e *SpinEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *SpinEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}
