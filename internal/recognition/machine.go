// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package recognition serves face scanning: the scan page, the auto-capture
frame endpoint, and the kiosk [Scanner] loop.

Auto-capture is driven by a [Machine] per capture source:

	IDLE ──Tick()──▶ CAPTURING ──Submit()──▶ AWAITING_RESULT
	 ▲                   │                         │
	 └─────Complete()────┴────────Complete()───────┘

A tick is a no-op unless the machine is IDLE, so at most one recognition call
is outstanding per source no matter how often the timer fires. Every result,
negative or failed, returns the machine to IDLE.
*/
package recognition

import (
	"errors"
	"sync"
	"time"
)

// State is a position of the auto-capture machine.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateAwaitingResult
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateCapturing:
		return "CAPTURING"
	case StateAwaitingResult:
		return "AWAITING_RESULT"
	default:
		return "UNKNOWN"
	}
}

// ErrNotCapturing is returned by Submit outside the CAPTURING state.
var ErrNotCapturing = errors.New("recognition: submit without a capture in progress")

// Machine is the auto-capture state machine of one capture source.
// It is safe for concurrent use.
type Machine struct {
	mu      sync.Mutex
	state   State
	touched time.Time
}

// NewMachine returns an IDLE machine.
func NewMachine() *Machine {
	return &Machine{touched: time.Now()}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Tick starts a capture cycle. It reports false, changing nothing, unless
// the machine is IDLE.
func (m *Machine) Tick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.touched = time.Now()
	if m.state != StateIdle {
		return false
	}
	m.state = StateCapturing
	return true
}

// Submit records that the captured frame was sent for recognition.
func (m *Machine) Submit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateCapturing {
		return ErrNotCapturing
	}
	m.state = StateAwaitingResult
	return nil
}

// Complete ends the cycle, whatever its outcome.
func (m *Machine) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateIdle
	m.touched = time.Now()
}

// idleSince reports when the machine was last used, or zero while a cycle runs.
func (m *Machine) idleSince() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touched, m.state == StateIdle
}

// Machines keeps one [Machine] per browser.
type Machines struct {
	mu       sync.Mutex
	machines map[string]*Machine
}

// NewMachines creates an empty registry.
func NewMachines() *Machines {
	return &Machines{machines: make(map[string]*Machine)}
}

// Get returns the machine of key, creating it on first use.
func (r *Machines) Get(key string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()

	machine, ok := r.machines[key]
	if !ok {
		machine = NewMachine()
		r.machines[key] = machine
	}
	return machine
}

// Sweep drops idle machines unused for longer than maxIdle and reports how
// many were dropped. Machines in the middle of a cycle are kept.
func (r *Machines) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	dropped := 0
	for key, machine := range r.machines {
		touched, idle := machine.idleSince()
		if idle && touched.Before(cutoff) {
			delete(r.machines, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked machines.
func (r *Machines) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.machines)
}
