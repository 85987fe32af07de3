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

package edge_test

import (
	"testing"

	"github.com/macrtc/macrtc/hardware/edge"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/test"
)

func TestTrace(t *testing.T) {
	tr := edge.NewTrace("clock", pins.High)
	test.ExpectFailure(t, tr.Changed())
	test.ExpectSuccess(t, tr.Hi())

	tr.Tick(pins.Low)
	test.ExpectSuccess(t, tr.Falling())
	test.ExpectFailure(t, tr.Rising())
	test.ExpectSuccess(t, tr.Lo())

	tr.Tick(pins.Low)
	test.ExpectFailure(t, tr.Changed())

	tr.Tick(pins.High)
	test.ExpectSuccess(t, tr.Rising())

	w := []rune(tr.Waveform())
	test.DemandEquality(t, len(w), 64)
	test.ExpectEquality(t, string(w[60:]), "‾__‾")
}

func TestSelectAndDeselect(t *testing.T) {
	d := edge.NewDetector(pins.High, pins.Low)

	d.Sample(pins.Low, pins.Low)
	test.ExpectSuccess(t, d.TakeSelect())
	test.ExpectFailure(t, d.TakeSelect())
	test.ExpectFailure(t, d.TakeDeselect())

	d.Sample(pins.High, pins.Low)
	test.ExpectSuccess(t, d.TakeDeselect())
	test.ExpectFailure(t, d.TakeSelect())
}

func TestEdges(t *testing.T) {
	d := edge.NewDetector(pins.Low, pins.Low)
	test.ExpectEquality(t, d.TakeEdge(), edge.None)

	d.Sample(pins.Low, pins.High)
	test.ExpectEquality(t, d.TakeEdge(), edge.Rising)
	test.ExpectEquality(t, d.TakeEdge(), edge.None)

	d.Sample(pins.Low, pins.Low)
	test.ExpectEquality(t, d.TakeEdge(), edge.Falling)

	// sticky until consumed
	d.Sample(pins.Low, pins.High)
	d.Sample(pins.Low, pins.High)
	test.ExpectEquality(t, d.TakeEdge(), edge.Rising)

	// the most recent edge wins
	d.Sample(pins.Low, pins.Low)
	d.Sample(pins.Low, pins.High)
	test.ExpectEquality(t, d.TakeEdge(), edge.Rising)
	test.ExpectEquality(t, d.TakeEdge(), edge.None)

	d.Sample(pins.Low, pins.Low)
	d.ClearEdges()
	test.ExpectEquality(t, d.TakeEdge(), edge.None)

	// enable changes are not clock edges
	d.Sample(pins.High, pins.Low)
	test.ExpectEquality(t, d.TakeEdge(), edge.None)
}

func TestEdgesWhileDeselected(t *testing.T) {
	d := edge.NewDetector(pins.High, pins.High)

	d.Sample(pins.High, pins.Low)
	test.ExpectEquality(t, d.TakeEdge(), edge.None)

	// an edge latched before the select is forgotten
	d = edge.NewDetector(pins.Low, pins.High)
	d.Sample(pins.Low, pins.Low)
	d.Sample(pins.High, pins.Low)
	d.Sample(pins.Low, pins.Low)
	test.ExpectSuccess(t, d.TakeSelect())
	test.ExpectSuccess(t, d.TakeDeselect())
	test.ExpectEquality(t, d.TakeEdge(), edge.None)
}
