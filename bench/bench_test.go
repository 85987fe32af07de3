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

package bench_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/hardware/preferences"
	"github.com/macrtc/macrtc/test"
	"github.com/macrtc/macrtc/wavwriter"
)

func newBench(t *testing.T, mode string) *bench.Bench {
	t.Helper()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Mode.Set(mode))
	test.DemandSuccess(t, p.Log.Set(false))

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	b, err := bench.NewBench(env)
	test.DemandSuccess(t, err)
	return b
}

func TestTransactions(t *testing.T) {
	b := newBench(t, "extended")

	b.Host.SendWriteCmd(0x40, 0xab)
	test.ExpectEquality(t, b.Host.SendReadCmd(0xc0), uint8(0xab))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x10), uint8(0xab))

	b.Host.GenSendWriteXCmd(0x30, 0x5a)
	test.ExpectEquality(t, b.Host.GenSendReadXCmd(0x30), uint8(0x5a))

	test.ExpectEquality(t, b.Chip.Serial.Completed, uint64(4))
	test.ExpectEquality(t, b.Chip.Serial.Aborted, uint64(0))
}

func TestOneSecondInterrupt(t *testing.T) {
	b := newBench(t, "extended")
	test.DemandSuccess(t, b.Host.DumpTime())

	start := b.Host.Time()
	for range 3 {
		b.WaitOneSecond()
	}
	test.ExpectEquality(t, b.Host.Time(), start+3)
	test.ExpectEquality(t, b.VIA.IRQCount(), uint64(3))

	test.DemandSuccess(t, b.Host.DumpTime())
	test.ExpectEquality(t, b.Host.Time(), b.Chip.Seconds())
}

func TestElapsed(t *testing.T) {
	b := newBench(t, "extended")
	b.Wait(1250 * time.Microsecond)
	test.ExpectEquality(t, b.Elapsed, 1250*time.Microsecond)
}

func TestCapture(t *testing.T) {
	b := newBench(t, "extended")
	fn := filepath.Join(t.TempDir(), "capture.wav")

	test.ExpectFailure(t, b.StopCapture())
	test.DemandSuccess(t, b.StartCapture(fn))
	test.ExpectFailure(t, b.StartCapture(fn))
	test.ExpectSuccess(t, b.Capturing())

	// a read transaction is 1 + 32 + 32 + 1 quarter cycles
	b.Host.SendReadCmd(0xc0)
	test.DemandSuccess(t, b.StopCapture())
	test.ExpectFailure(t, b.Capturing())

	rec, err := wavwriter.Read(fn)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(rec.Channels), 4)
	test.ExpectEquality(t, len(rec.Channels[0]), 66)

	// enable is low from the first sample and high in the last. the clock
	// has one cycle for each bit
	test.ExpectEquality(t, rec.Edges(0), 1)
	test.ExpectEquality(t, rec.Edges(1), 32)
}

func TestLines(t *testing.T) {
	b := newBench(t, "legacy")
	test.ExpectInequality(t, b.Lines(), "")
	test.ExpectInequality(t, b.String(), "")
}

func TestDumpTimeOffsets(t *testing.T) {
	for _, mode := range []string{"legacy", "extended"} {
		b := newBench(t, mode)

		// move the start of each dump through the timer period so that some
		// dumps straddle a one second boundary
		for i := range 400 {
			b.Wait(time.Duration(1+i%7) * time.Millisecond)
			test.DemandSuccess(t, b.Host.DumpTime())
			test.ExpectEquality(t, b.Host.Time(), b.Chip.Seconds())
		}
		test.ExpectInequality(t, b.Host.Interrupts(), uint64(0))
	}
}
