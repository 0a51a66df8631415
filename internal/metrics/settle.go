package metrics

import (
	"github.com/san-kum/spintop/internal/sim"
)

// SettleTime measures how long the top spun: from the first spinning sample
// to the first sample after it stopped. It is -1 while the top never
// settled.
type SettleTime struct {
	name    string
	start   float64
	settled float64
	started bool
	done    bool
}

func NewSettleTime() *SettleTime {
	s := &SettleTime{name: "settle_time"}
	s.Reset()
	return s
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(x sim.Sample) {
	switch {
	case s.done:
	case !s.started && x.Spinning:
		s.started = true
		s.start = x.Time
	case s.started && !x.Spinning:
		s.done = true
		s.settled = x.Time
	}
}

func (s *SettleTime) Value() float64 {
	if !s.done {
		return -1
	}
	return s.settled - s.start
}

func (s *SettleTime) Reset() {
	s.start, s.settled = 0, 0
	s.started, s.done = false, false
}
