// This file is part of macrtc.
//
// macrtc is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// macrtc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with macrtc.  If not, see <https://www.gnu.org/licenses/>.

// Package interrupts models the interrupt controller of the device. There are
// two contexts of execution: interrupt handlers and the foreground loop.
//
// Handlers are attached to a Vector and delivered with Raise(). A handler
// always runs with interrupts masked, so handlers never interleave with each
// other or with a foreground critical section.
//
// The foreground loop opens a critical section with Disable() and closes it
// with Restore(). Critical sections do not nest and handlers must not call
// Disable() because they already run masked.
//
// Every delivered interrupt wakes the foreground loop from Wait().
package interrupts

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Vector identifies an interrupt source.
type Vector int

// List of valid Vector values.
const (
	PinChange Vector = iota
	TimerOverflow
	numVectors
)

func (v Vector) String() string {
	switch v {
	case PinChange:
		return "pin change"
	case TimerOverflow:
		return "timer overflow"
	}
	return fmt.Sprintf("vector %d", int(v))
}

// State is the interrupt mask state returned by Disable(). It must be passed
// to the matching Restore().
type State bool

// List of valid State values.
const (
	Enabled State = false
	Masked  State = true
)

// Controller dispatches interrupts to their handlers and provides the
// critical section primitives.
type Controller struct {
	// held while a handler runs or while the foreground is in a critical
	// section
	mask sync.Mutex

	handlers [numVectors]func()
	counts   [numVectors]atomic.Uint64

	// wake is signalled by every delivered interrupt. it has a buffer of one
	// so that a wake-up is never lost between a check and a Wait()
	wake chan struct{}
}

// NewController is the preferred method of initialisation for the Controller
// type.
func NewController() *Controller {
	return &Controller{
		wake: make(chan struct{}, 1),
	}
}

func (ic *Controller) String() string {
	return fmt.Sprintf("pin change=%d timer overflow=%d", ic.Count(PinChange), ic.Count(TimerOverflow))
}

// Attach handler to vector. Attaching to a vector that already has a handler
// replaces it. Handlers should be attached during setup, before any
// interrupt can be raised.
func (ic *Controller) Attach(v Vector, handler func()) {
	ic.mask.Lock()
	defer ic.mask.Unlock()
	ic.handlers[v] = handler
}

// Raise delivers an interrupt. The handler runs to completion with interrupts
// masked. If the foreground is in a critical section, delivery is delayed
// until Restore() is called.
func (ic *Controller) Raise(v Vector) {
	ic.mask.Lock()
	h := ic.handlers[v]
	if h != nil {
		h()
	}
	ic.mask.Unlock()

	ic.counts[v].Add(1)

	select {
	case ic.wake <- struct{}{}:
	default:
	}
}

// Count returns the number of times an interrupt has been delivered.
func (ic *Controller) Count(v Vector) uint64 {
	return ic.counts[v].Load()
}

// Disable interrupts. The returned State must be passed to Restore().
func (ic *Controller) Disable() State {
	ic.mask.Lock()
	return Enabled
}

// Restore interrupts to the state they were in before the call to Disable().
func (ic *Controller) Restore(s State) {
	if s == Enabled {
		ic.mask.Unlock()
	}
}

// Pending returns true if an interrupt has been delivered since the last call
// to Pending() or Wait(). The pending flag is cleared.
func (ic *Controller) Pending() bool {
	select {
	case <-ic.wake:
		return true
	default:
		return false
	}
}

// Wait is the low power wait of the foreground loop. It returns once an
// interrupt has been delivered since the last call to Pending() or Wait(), or
// when the context is done.
func (ic *Controller) Wait(ctx context.Context) error {
	select {
	case <-ic.wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
