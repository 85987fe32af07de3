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

// Package edge turns the levels of the enable and clock lines, sampled in
// interrupt context, into sticky event flags for the foreground loop.
//
// The flags follow the single-producer/single-consumer pattern. Only the
// pin change handler sets them and only the foreground loop clears them.
// Because they are sticky, an edge that happens while the foreground is busy
// is not lost. Because they are flags and not a queue, at most one of each
// kind is remembered.
package edge

import (
	"fmt"
	"sync/atomic"

	"github.com/macrtc/macrtc/hardware/pins"
)

// Edge is a transition of the serial clock.
type Edge int

// List of valid Edge values.
const (
	None Edge = iota
	Rising
	Falling
)

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	}
	return "none"
}

// Detector latches select, deselect and clock edge events.
type Detector struct {
	// traces are only touched in interrupt context
	Enable Trace
	Clock  Trace

	selected   atomic.Bool
	deselected atomic.Bool
	rising     atomic.Bool
	falling    atomic.Bool
}

// NewDetector is the preferred method of initialisation for the Detector
// type. The levels are the levels of the lines at setup.
func NewDetector(enable pins.Level, clock pins.Level) *Detector {
	return &Detector{
		Enable: NewTrace("enable", enable),
		Clock:  NewTrace("clock", clock),
	}
}

func (d *Detector) String() string {
	return fmt.Sprintf("selected=%v deselected=%v rising=%v falling=%v",
		d.selected.Load(), d.deselected.Load(), d.rising.Load(), d.falling.Load())
}

// Sample is called from the pin change handler with the current level of the
// enable and clock lines.
func (d *Detector) Sample(enable pins.Level, clock pins.Level) {
	d.Enable.Tick(enable)
	d.Clock.Tick(clock)

	// enable is asserted low. clock edges from before the select are stale
	if d.Enable.Falling() {
		d.ClearEdges()
		d.selected.Store(true)
	} else if d.Enable.Rising() {
		d.deselected.Store(true)
	}

	// clock edges only count while the device is selected
	if d.Enable.Hi() {
		return
	}

	// the latest clock edge replaces an unconsumed edge of the other kind
	if d.Clock.Rising() {
		d.falling.Store(false)
		d.rising.Store(true)
	} else if d.Clock.Falling() {
		d.rising.Store(false)
		d.falling.Store(true)
	}
}

// TakeSelect returns true if enable has been asserted since the last call.
// The flag is cleared.
func (d *Detector) TakeSelect() bool {
	return d.selected.Swap(false)
}

// TakeDeselect returns true if enable has been deasserted since the last
// call. The flag is cleared.
func (d *Detector) TakeDeselect() bool {
	return d.deselected.Swap(false)
}

// TakeEdge returns the clock edge that has happened since the last call, if
// any. The flag is cleared.
func (d *Detector) TakeEdge() Edge {
	if d.falling.Swap(false) {
		return Falling
	}
	if d.rising.Swap(false) {
		return Rising
	}
	return None
}

// ClearEdges forgets any unconsumed clock edge.
func (d *Detector) ClearEdges() {
	d.rising.Store(false)
	d.falling.Store(false)
}
