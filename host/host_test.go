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

package host_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/hardware/preferences"
	"github.com/macrtc/macrtc/host"
	"github.com/macrtc/macrtc/test"
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

func TestMacTime(t *testing.T) {
	test.ExpectEquality(t, host.MacUnixDelta, 2082844800)
	test.ExpectEquality(t, host.FormatMacTime(host.MacUnixDelta), "1970-01-01 00:00:00")
	test.ExpectEquality(t, host.FormatMacTime(0), "1904-01-01 00:00:00")

	secs, err := host.ParseMacTime("1970-01-01 00:00:00")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, secs, uint32(host.MacUnixDelta))

	secs, err = host.ParseMacTime("2024-02-29 12:34:56")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, host.FormatMacTime(secs), "2024-02-29 12:34:56")

	_, err = host.ParseMacTime("yesterday")
	test.ExpectFailure(t, err)

	// the wall clock of the time's location is used
	loc := time.FixedZone("test", 3600)
	test.ExpectEquality(t, host.TimeToMac(time.Date(1970, 1, 1, 1, 0, 0, 0, loc)), uint32(host.MacUnixDelta+3600))
}

func TestGenCmd(t *testing.T) {
	test.ExpectEquality(t, host.GenCmd(0x10, true), uint8(0x40))
	test.ExpectEquality(t, host.GenCmd(0x10, false), uint8(0xc0))

	c1, c2 := host.GenXCmd(0x30, true)
	test.ExpectEquality(t, c1, uint8(0x39))
	test.ExpectEquality(t, c2, uint8(0x40))

	c1, c2 = host.GenXCmd(0xff, false)
	test.ExpectEquality(t, c1, uint8(0xbf))
	test.ExpectEquality(t, c2, uint8(0x7c))
}

func TestTime(t *testing.T) {
	b := newBench(t, "legacy")
	h := b.Host

	h.SetTime(0x983b80d5)
	test.ExpectEquality(t, b.Chip.Seconds(), uint32(0x983b80d5))
	test.DemandSuccess(t, h.DumpTime())
	test.ExpectEquality(t, h.Time(), uint32(0x983b80d5))

	test.ExpectSuccess(t, h.SetStrTime("2000-01-01 00:00:00"))
	test.ExpectEquality(t, h.StrTime(), "2000-01-01 00:00:00")
	test.ExpectEquality(t, host.FormatMacTime(b.Chip.Seconds()), "2000-01-01 00:00:00")

	test.ExpectFailure(t, h.SetStrTime("2000-13-01 00:00:00"))
	test.ExpectEquality(t, h.StrTime(), "2000-01-01 00:00:00")
}

func TestWriteProtect(t *testing.T) {
	b := newBench(t, "extended")
	h := b.Host

	h.GenSendWriteCmd(0x10, 0x11)
	h.SetWriteProtect()
	test.ExpectSuccess(t, h.WriteProtect)
	h.GenSendWriteCmd(0x10, 0x22)
	test.ExpectEquality(t, h.GenSendReadCmd(0x10), uint8(0x11))

	h.ClearWriteProtect()
	h.GenSendWriteCmd(0x10, 0x22)
	test.ExpectEquality(t, h.GenSendReadCmd(0x10), uint8(0x22))
}

func TestTradMem(t *testing.T) {
	b := newBench(t, "extended")
	h := b.Host

	for i := range h.PRAM {
		h.PRAM[i] = uint8(i) ^ 0xa5
	}
	h.LoadAllTradMem()

	expect := h.TradMem()
	clear(h.PRAM[:])
	h.DumpAllTradMem()
	test.ExpectEquality(t, string(h.TradMem()), string(expect))

	// group 1 and group 2 are at 0x10 and 0x08 on an extended device
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x10), uint8(0x10^0xa5))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x08), uint8(0x08^0xa5))
}

func TestTradMemLegacy(t *testing.T) {
	b := newBench(t, "legacy")
	h := b.Host
	h.SetPramType(false)
	test.ExpectFailure(t, h.PramType())

	m := make([]uint8, 20)
	for i := range m {
		m[i] = uint8(i + 1)
	}
	h.SetTradMem(m)
	h.LoadAllTradMem()

	// group 1 first in the image, group 2 at 0x10 in storage
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x00), uint8(1))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x10), uint8(17))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x13), uint8(20))
}

func TestXMem(t *testing.T) {
	b := newBench(t, "extended")
	h := b.Host

	for i := range h.PRAM {
		h.PRAM[i] = uint8(255 - i)
	}
	h.LoadAllXMem()
	for i, v := range b.Chip.Mem.Data {
		if !test.ExpectEquality(t, v, uint8(255-i)) {
			break
		}
	}

	clear(h.PRAM[:])
	h.DumpAllXMem()
	test.ExpectEquality(t, h.ReadXMem(0x00), uint8(0xff))
	test.ExpectEquality(t, h.ReadXMem(0xff), uint8(0x00))

	h.WriteXMem(0x80, 0x42)
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x80), uint8(0x42))
	test.ExpectEquality(t, h.ReadXMem(0x80), uint8(0x42))
}

func TestTradPramCmd(t *testing.T) {
	b := newBench(t, "extended")
	h := b.Host

	// group 1 write and read back from the host copy
	test.ExpectEquality(t, h.TradPramCmd(0x40, 0x99), uint8(1))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x10), uint8(0x99))
	test.ExpectEquality(t, h.TradPramCmd(0xc0, 0), uint8(0x99))

	// seconds
	test.ExpectEquality(t, h.TradPramCmd(0x0c, 0x12), uint8(1))
	test.ExpectEquality(t, h.Time()>>24, uint32(0x12))
	test.ExpectEquality(t, h.TradPramCmd(0x8c, 0), uint8(0x12))

	// write-only registers and the extended prefix
	test.ExpectEquality(t, h.TradPramCmd(0xb0, 0), uint8(0))
	test.ExpectEquality(t, h.TradPramCmd(0x38, 0), uint8(0))

	// only the write-protect register accepts writes while write-protect is set
	test.ExpectEquality(t, h.TradPramCmd(0x34, 0x80), uint8(1))
	test.ExpectEquality(t, h.TradPramCmd(0x40, 0x11), uint8(0))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x10), uint8(0x99))
	test.ExpectEquality(t, h.TradPramCmd(0x34, 0x00), uint8(1))
	test.ExpectEquality(t, h.TradPramCmd(0x40, 0x11), uint8(1))
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x10), uint8(0x11))
}

func TestPartialCommand(t *testing.T) {
	b := newBench(t, "extended")
	h := b.Host

	h.GenSendWriteCmd(0x10, 0xcd)
	h.SendPartialCmd(host.GenCmd(0x10, true), 6)
	test.ExpectEquality(t, h.GenSendReadCmd(0x10), uint8(0xcd))
	test.ExpectEquality(t, b.Chip.Serial.Aborted, uint64(1))
}
