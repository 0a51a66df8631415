package metrics

import (
	"github.com/san-kum/spintop/internal/sim"
)

// PushEffort is the mean push force magnitude over the samples with an
// active push.
type PushEffort struct {
	name    string
	sum     float64
	samples int
}

func NewPushEffort() *PushEffort {
	return &PushEffort{
		name: "push_effort",
	}
}

func (c *PushEffort) Name() string {
	return c.name
}

func (c *PushEffort) Observe(x sim.Sample) {
	if !x.PushActive {
		return
	}
	c.sum += x.PushForce
	c.samples++
}

func (c *PushEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *PushEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
