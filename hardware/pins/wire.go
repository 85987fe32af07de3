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

package pins

import (
	"fmt"
	"strings"
	"sync"
)

// Wire is a simulated open drain wire with a pull-up. The wire reads low if
// any endpoint is driving it low, otherwise it reads high.
type Wire struct {
	label string

	crit      sync.Mutex
	endpoints []*Endpoint
	level     Level
	watchers  []func(Level)
}

// NewWire is the preferred method of initialisation for the Wire type.
func NewWire(label string) *Wire {
	return &Wire{
		label: label,
		level: High,
	}
}

func (w *Wire) String() string {
	w.crit.Lock()
	defer w.crit.Unlock()

	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", w.label, w.level))
	for _, e := range w.endpoints {
		if e.driving {
			s.WriteString(fmt.Sprintf(" (driven by %s)", e.owner))
		}
	}
	return s.String()
}

// Label returns the name of the wire.
func (w *Wire) Label() string {
	return w.label
}

// Level returns the current level of the wire.
func (w *Wire) Level() Level {
	w.crit.Lock()
	defer w.crit.Unlock()
	return w.level
}

// Endpoint creates a new connection to the wire. The endpoint starts as an
// input.
func (w *Wire) Endpoint(owner string) *Endpoint {
	w.crit.Lock()
	defer w.crit.Unlock()
	e := &Endpoint{wire: w, owner: owner}
	w.endpoints = append(w.endpoints, e)
	return e
}

// Watch adds a function to be called whenever the level of the wire changes.
// The function is called with the new level after the change has been made
// and outside of the wire's lock, so it may read the wire.
func (w *Wire) Watch(f func(Level)) {
	w.crit.Lock()
	defer w.crit.Unlock()
	w.watchers = append(w.watchers, f)
}

// resolve level after a change to an endpoint.
func (w *Wire) resolve() {
	w.crit.Lock()
	level := High
	for _, e := range w.endpoints {
		if e.driving {
			level = Low
			break
		}
	}
	changed := level != w.level
	w.level = level
	watchers := w.watchers
	w.crit.Unlock()

	if changed {
		for _, f := range watchers {
			f(level)
		}
	}
}

// Endpoint is one connection to a Wire. It implements the Line interface.
type Endpoint struct {
	wire    *Wire
	owner   string
	output  bool
	driving bool
}

func (e *Endpoint) String() string {
	switch {
	case e.driving:
		return fmt.Sprintf("%s: %s output low", e.owner, e.wire.label)
	case e.output:
		return fmt.Sprintf("%s: %s output released", e.owner, e.wire.label)
	}
	return fmt.Sprintf("%s: %s input", e.owner, e.wire.label)
}

func (e *Endpoint) set(output bool, driving bool) {
	e.wire.crit.Lock()
	e.output = output
	e.driving = driving
	e.wire.crit.Unlock()
	e.wire.resolve()
}

// SetAsInput implements the Line interface.
func (e *Endpoint) SetAsInput() {
	e.set(false, false)
}

// SetAsOutputLow implements the Line interface.
func (e *Endpoint) SetAsOutputLow() {
	e.set(true, true)
}

// SetAsOutputReleased implements the Line interface.
func (e *Endpoint) SetAsOutputReleased() {
	e.set(true, false)
}

// ReadLevel implements the Line interface.
func (e *Endpoint) ReadLevel() Level {
	return e.wire.Level()
}

// IsOutput returns true if the endpoint has been set as an output.
func (e *Endpoint) IsOutput() bool {
	e.wire.crit.Lock()
	defer e.wire.crit.Unlock()
	return e.output
}
