package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/spintop/internal/sim"
)

func TestSpinEnergy(t *testing.T) {
	m := NewSpinEnergy(0.002)

	m.Observe(sim.Sample{AngularSpeed: 30, Spinning: true})
	m.Observe(sim.Sample{AngularSpeed: 10, Spinning: true})
	m.Observe(sim.Sample{AngularSpeed: 50})

	expected := (0.5*0.002*900 + 0.5*0.002*100) / 2
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestSpinEnergyReset(t *testing.T) {
	m := NewSpinEnergy(1)

	m.Observe(sim.Sample{AngularSpeed: 1, Spinning: true})
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero energy after reset, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.1)
	if m.Value() != 1.0 {
		t.Errorf("empty stability should be 1, got %f", m.Value())
	}

	for _, tilt := range []float64{0, 0.05, 0.1, 0.3} {
		m.Observe(sim.Sample{Tilt: tilt})
	}
	if m.Value() != 0.75 {
		t.Errorf("expected stability 0.75, got %f", m.Value())
	}
}

func TestPushEffort(t *testing.T) {
	m := NewPushEffort()
	m.Observe(sim.Sample{PushActive: true, PushForce: 0.1})
	m.Observe(sim.Sample{PushActive: true, PushForce: 0.2})
	m.Observe(sim.Sample{PushForce: 5})

	if math.Abs(m.Value()-0.15) > 1e-12 {
		t.Errorf("expected effort 0.15, got %f", m.Value())
	}
}

func TestSettleTime(t *testing.T) {
	m := NewSettleTime()
	if m.Value() != -1 {
		t.Errorf("expected -1 before settling, got %f", m.Value())
	}

	m.Observe(sim.Sample{Time: 0.5})
	m.Observe(sim.Sample{Time: 1.0, Spinning: true})
	m.Observe(sim.Sample{Time: 3.0, Spinning: true})
	m.Observe(sim.Sample{Time: 5.5})
	m.Observe(sim.Sample{Time: 6.0, Spinning: true})
	m.Observe(sim.Sample{Time: 7.0})

	if m.Value() != 4.5 {
		t.Errorf("expected settle time 4.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != -1 {
		t.Errorf("expected -1 after reset, got %f", m.Value())
	}
}
