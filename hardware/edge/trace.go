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

package edge

import (
	"strings"

	"github.com/macrtc/macrtc/hardware/pins"
)

// Trace records the level of a line and whether the immediately previous
// level was high or low.
//
// Moving from one level to the next is done with Tick(). Falling() is true if
// the line has moved from high to low and Rising() is true for the opposite.
// Deriving conditions from two traces is convenient. For example:
//
//	if enable.Lo() && clock.Falling() {
//		...
//	}
type Trace struct {
	Label string

	// recent levels. the newest level is at the end of the slice
	Activity []pins.Level

	from pins.Level
	to   pins.Level
}

const activityLength = 64

// NewTrace is the preferred method of initialisation for the Trace type. The
// initial level is used for both the current and previous level so that the
// first Tick() with the same level is not a change.
func NewTrace(label string, initial pins.Level) Trace {
	tr := Trace{
		Label:    label,
		Activity: make([]pins.Level, activityLength),
		from:     initial,
		to:       initial,
	}
	for i := range tr.Activity {
		tr.Activity[i] = initial
	}
	return tr
}

// Snapshot makes a copy of the trace.
func (tr *Trace) Snapshot() *Trace {
	cp := *tr
	cp.Activity = make([]pins.Level, len(tr.Activity))
	copy(cp.Activity, tr.Activity)
	return &cp
}

func (tr *Trace) Changed() bool {
	return tr.from != tr.to
}

func (tr *Trace) Falling() bool {
	return tr.from == pins.High && tr.to == pins.Low
}

func (tr *Trace) Rising() bool {
	return tr.from == pins.Low && tr.to == pins.High
}

func (tr *Trace) Hi() bool {
	return tr.to == pins.High
}

func (tr *Trace) Lo() bool {
	return tr.to == pins.Low
}

// Tick adds a new level to the trace.
func (tr *Trace) Tick(v pins.Level) {
	tr.from = tr.to
	tr.to = v
	copy(tr.Activity, tr.Activity[1:])
	tr.Activity[len(tr.Activity)-1] = v
}

// Waveform returns the activity of the trace as a single line of text.
func (tr *Trace) Waveform() string {
	s := strings.Builder{}
	for _, v := range tr.Activity {
		if v == pins.High {
			s.WriteRune('‾')
		} else {
			s.WriteRune('_')
		}
	}
	return s.String()
}
