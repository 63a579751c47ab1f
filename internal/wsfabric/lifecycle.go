// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package wsfabric

import "fmt"

// State is a step in the fabric's fixed initialization sequence (spec
// §4.2). Setting up wire handlers before SERVICES_READY, or accepting
// sockets before HANDLERS_READY, must fail fast rather than silently
// race early connections past the domain-to-wire bridge.
type State int

const (
	Uninitialized State = iota
	ServicesReady
	HandlersReady
	Listening
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case ServicesReady:
		return "SERVICES_READY"
	case HandlersReady:
		return "HANDLERS_READY"
	case Listening:
		return "LISTENING"
	default:
		return "UNKNOWN"
	}
}

// Lifecycle enforces the fixed UNINITIALIZED -> SERVICES_READY ->
// HANDLERS_READY -> LISTENING progression and its mirrored teardown.
type Lifecycle struct {
	state State
}

// NewLifecycle returns a Lifecycle starting at Uninitialized.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: Uninitialized}
}

// State returns the current state.
func (l *Lifecycle) State() State { return l.state }

// Advance moves to the next state in sequence, or returns an error if
// called out of order.
func (l *Lifecycle) Advance(to State) error {
	if to != l.state+1 {
		return fmt.Errorf("wsfabric: cannot advance from %s to %s", l.state, to)
	}
	l.state = to
	return nil
}

// RequireAtLeast returns an error if the fabric has not yet reached min,
// used to fail fast on out-of-order setup calls (e.g. attaching wire
// handlers before SERVICES_READY).
func (l *Lifecycle) RequireAtLeast(min State) error {
	if l.state < min {
		return fmt.Errorf("wsfabric: requires state >= %s, currently %s", min, l.state)
	}
	return nil
}

// Reset returns the lifecycle to Uninitialized, mirroring the cleanup
// symmetry spec §4.2 requires on shutdown.
func (l *Lifecycle) Reset() {
	l.state = Uninitialized
}
