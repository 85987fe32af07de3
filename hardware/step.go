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

package hardware

import (
	"github.com/macrtc/macrtc/hardware/edge"
	"github.com/macrtc/macrtc/hardware/pins"
)

// Step performs one iteration of the foreground loop. Returns true if an
// event was handled, in which case there may be more to do.
//
// A deasserted enable line, or a deselect latched since the last iteration,
// ends any transaction in progress. This check happens before anything else
// so that a quick deselect/reselect pair is seen as two transactions. After
// that a latched select begins a new transaction. Otherwise at most one
// clock edge is consumed.
func (chip *Chip) Step() bool {
	deselected := chip.Edges.TakeDeselect()
	enable := chip.Port.Enable.ReadLevel()

	if deselected || enable == pins.High {
		chip.Serial.Abort()

		// on a quick reselect the detector has already discarded the edges
		// from before the select. edges latched since then belong to the new
		// transaction
		if enable == pins.High {
			chip.Edges.ClearEdges()
			chip.Edges.TakeSelect()
			return false
		}
		return true
	}

	if chip.Edges.TakeSelect() {
		chip.Serial.Select()
		return true
	}

	switch chip.Edges.TakeEdge() {
	case edge.Falling:
		chip.Serial.Falling()
		return true
	case edge.Rising:
		chip.Serial.Rising()
		return true
	}

	return false
}

// Service runs the foreground loop until there are no more events to handle.
// It does not wait for new events.
func (chip *Chip) Service() {
	for chip.IC.Pending() {
		for chip.Step() {
		}
	}
}
