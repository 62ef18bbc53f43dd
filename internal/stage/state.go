package stage

import (
	"fmt"
	"sync"
)

// State is a phase of a backup run.
type State int

const (
	Idle State = iota
	Scanning
	Processing
	Summarizing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Processing:
		return "processing"
	case Summarizing:
		return "summarizing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Machine tracks the state of a one-shot run. States only move forward and
// none is entered twice; a run may skip straight to Summarizing or Done when
// it stops early.
type Machine struct {
	mu      sync.Mutex
	current State
}

// Current returns the present state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Advance moves to next, rejecting any transition that is not forward.
func (m *Machine) Advance(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if next <= m.current || next > Done {
		return fmt.Errorf("invalid run transition %s -> %s", m.current, next)
	}
	m.current = next
	return nil
}
