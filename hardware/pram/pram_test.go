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

package pram_test

import (
	"testing"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/interrupts"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/test"
)

func TestModes(t *testing.T) {
	test.ExpectEquality(t, pram.Legacy.Size(), 20)
	test.ExpectEquality(t, pram.Legacy.Group1Base(), uint8(0x00))
	test.ExpectEquality(t, pram.Legacy.Group2Base(), uint8(0x10))
	test.ExpectFailure(t, pram.Legacy.Extended())

	test.ExpectEquality(t, pram.Extended.Size(), 256)
	test.ExpectEquality(t, pram.Extended.Group1Base(), uint8(0x10))
	test.ExpectEquality(t, pram.Extended.Group2Base(), uint8(0x08))
	test.ExpectSuccess(t, pram.Extended.Extended())

	m, err := pram.ParseMode("XPRAM")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, pram.Extended)

	_, err = pram.ParseMode("512")
	test.ExpectSuccess(t, curated.Is(err, pram.UnknownMode))
}

func TestDefaultSeconds(t *testing.T) {
	// 2,524,608,000 seconds between 1904 and 1984
	test.ExpectEquality(t, pram.DefaultSeconds, uint32(2524608000))
}

func TestClockBytes(t *testing.T) {
	clk := pram.NewClock(interrupts.NewController(), 0x983b80d5)

	test.ExpectEquality(t, clk.ReadByte(0), uint8(0xd5))
	test.ExpectEquality(t, clk.ReadByte(1), uint8(0x80))
	test.ExpectEquality(t, clk.ReadByte(2), uint8(0x3b))
	test.ExpectEquality(t, clk.ReadByte(3), uint8(0x98))

	clk.WriteByte(2, 0x00)
	test.ExpectEquality(t, clk.Seconds(), uint32(0x980080d5))

	clk.SetSeconds(0xffffffff)
	clk.Increment()
	test.ExpectEquality(t, clk.Seconds(), uint32(0))
}

func TestMemory(t *testing.T) {
	clk := pram.NewClock(interrupts.NewController(), pram.DefaultSeconds)
	mem := pram.NewMemory(pram.Legacy, clk)

	test.ExpectEquality(t, len(mem.Data), 20)
	test.ExpectFailure(t, mem.WriteProtect)

	mem.Poke(0x13, 0xaa)
	mem.Poke(0x14, 0xbb)
	test.ExpectEquality(t, mem.Peek(0x13), uint8(0xaa))
	test.ExpectEquality(t, mem.Peek(0x14), uint8(0))

	mem.WriteProtect = true
	mem.Reset()
	test.ExpectEquality(t, mem.Peek(0x13), uint8(0))
	test.ExpectFailure(t, mem.WriteProtect)
	test.ExpectEquality(t, clk.Seconds(), pram.DefaultSeconds)

	test.ExpectEquality(t, mem.Dump(), "00- 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00\n10- 00 00 00 00\n")
}
