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

package wavwriter_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/test"
	"github.com/macrtc/macrtc/wavwriter"
)

func TestWriteAndRead(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "capture.wav")

	aw, err := wavwriter.New(fn, 500*time.Microsecond, "clock", "data")
	test.DemandSuccess(t, err)

	for i := range 100 {
		aw.Sample(pins.LevelFromBit(uint8(i&1)), pins.High)
	}
	test.ExpectEquality(t, aw.Len(), 100)
	test.DemandSuccess(t, aw.EndMixing())

	rec, err := wavwriter.Read(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.SampleRate, 2000)
	test.DemandEquality(t, len(rec.Channels), 2)
	test.ExpectEquality(t, len(rec.Channels[0]), 100)
	test.ExpectEquality(t, rec.Edges(0), 99)
	test.ExpectEquality(t, rec.Edges(1), 0)
	test.ExpectEquality(t, rec.Channels[1][50], pins.High)
	test.ExpectEquality(t, rec.Edges(5), 0)
}

func TestBadParameters(t *testing.T) {
	_, err := wavwriter.New("x.wav", time.Millisecond)
	test.ExpectFailure(t, err)

	_, err = wavwriter.New("x.wav", 0, "clock")
	test.ExpectFailure(t, err)

	_, err = wavwriter.Read(filepath.Join(t.TempDir(), "missing.wav"))
	test.ExpectFailure(t, err)
}
