package input

import (
	"fmt"
	"sort"
)

// Action is a scripted input event.
type Action string

const (
	ActionUse  Action = "use"
	ActionGrab Action = "grab"
)

// Event schedules an action at a simulation time in seconds.
type Event struct {
	At     float64 `yaml:"at" json:"at"`
	Action Action  `yaml:"action" json:"action"`
}

// Script replays events in time order.
type Script struct {
	events []Event
	next   int
}

func NewScript(events ...Event) (*Script, error) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	for _, e := range sorted {
		if e.At < 0 {
			return nil, fmt.Errorf("event %q at negative time %.3f", e.Action, e.At)
		}
		switch e.Action {
		case ActionUse, ActionGrab:
		default:
			return nil, fmt.Errorf("unknown action %q", e.Action)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Script{events: sorted}, nil
}

// Due returns the events scheduled at or before t that have not been
// returned yet.
func (s *Script) Due(t float64) []Event {
	start := s.next
	for s.next < len(s.events) && s.events[s.next].At <= t {
		s.next++
	}
	return s.events[start:s.next]
}

func (s *Script) Done() bool      { return s.next >= len(s.events) }
func (s *Script) Events() []Event { return s.events }
func (s *Script) Reset()          { s.next = 0 }
