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

package command_test

import (
	"testing"

	"github.com/macrtc/macrtc/hardware/command"
	"github.com/macrtc/macrtc/hardware/interrupts"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/test"
)

func TestSeconds(t *testing.T) {
	for _, mode := range []pram.Mode{pram.Legacy, pram.Extended} {
		for n := range uint8(4) {
			c := command.Decode(0x80|n<<2, mode)
			test.ExpectEquality(t, c, command.Command{Resource: command.SecondsByte, Index: n})

			// 0x90 to 0x9c alias 0x80 to 0x8c
			c = command.Decode(0x90|n<<2, mode)
			test.ExpectEquality(t, c, command.Command{Resource: command.SecondsByte, Index: n})

			c = command.Decode(n<<2, mode)
			test.ExpectEquality(t, c, command.Command{Write: true, Resource: command.SecondsByte, Index: n})
		}
	}

	// low two bits are ignored
	c := command.Decode(0x87, pram.Legacy)
	test.ExpectEquality(t, c.Index, uint8(1))
}

func TestLegacyMemory(t *testing.T) {
	// group 2
	c := command.Decode(0xa0, pram.Legacy)
	test.ExpectEquality(t, c, command.Command{Resource: command.LegacyMemory, Index: 0x10})
	c = command.Decode(0x2c, pram.Legacy)
	test.ExpectEquality(t, c, command.Command{Write: true, Resource: command.LegacyMemory, Index: 0x13})

	// group 1
	c = command.Decode(0xc0, pram.Legacy)
	test.ExpectEquality(t, c, command.Command{Resource: command.LegacyMemory, Index: 0x00})
	c = command.Decode(0x7c, pram.Legacy)
	test.ExpectEquality(t, c, command.Command{Write: true, Resource: command.LegacyMemory, Index: 0x0f})

	// same commands in the extended mode address different locations
	c = command.Decode(0xa0, pram.Extended)
	test.ExpectEquality(t, c.Index, uint8(0x08))
	c = command.Decode(0x40, pram.Extended)
	test.ExpectEquality(t, c, command.Command{Write: true, Resource: command.LegacyMemory, Index: 0x10})
	c = command.Decode(0xe8, pram.Extended)
	test.ExpectEquality(t, c.Index, uint8(0x1a))
}

func TestRegisters(t *testing.T) {
	c := command.Decode(0x30, pram.Legacy)
	test.ExpectEquality(t, c.Resource, command.TestWrite)
	c = command.Decode(0x34, pram.Legacy)
	test.ExpectEquality(t, c.Resource, command.WriteProtect)

	// write only registers
	test.ExpectFailure(t, command.Decode(0xb0, pram.Legacy).Valid())
	test.ExpectFailure(t, command.Decode(0xb4, pram.Legacy).Valid())
}

func TestExtendedPrefix(t *testing.T) {
	test.ExpectSuccess(t, command.IsExtended(0x38))
	test.ExpectSuccess(t, command.IsExtended(0xbf))
	test.ExpectFailure(t, command.IsExtended(0x34))

	c := command.Decode(0xb8, pram.Extended)
	test.ExpectEquality(t, c.Resource, command.ExtendedPrefix)
	test.ExpectFailure(t, c.Write)

	// not recognised by a legacy device
	c = command.Decode(0x38, pram.Legacy)
	test.ExpectEquality(t, c.Resource, command.Invalid)
	c = command.Decode(0x3c, pram.Legacy)
	test.ExpectEquality(t, c.Resource, command.Invalid)
}

func TestExtended(t *testing.T) {
	for a := range 256 {
		addr := uint8(a)
		cmd1, cmd2 := command.EncodeExtended(addr, true)
		c := command.DecodeExtended(cmd1, cmd2)
		test.ExpectEquality(t, c, command.Command{Write: true, Resource: command.ExtendedMemory, Index: addr})

		cmd1, cmd2 = command.EncodeExtended(addr, false)
		c = command.DecodeExtended(cmd1, cmd2)
		test.ExpectEquality(t, c, command.Command{Resource: command.ExtendedMemory, Index: addr})
	}

	cmd1, cmd2 := command.EncodeExtended(0x30, true)
	test.ExpectEquality(t, cmd1, uint8(0x39))
	test.ExpectEquality(t, cmd2, uint8(0x40))

	test.ExpectEquality(t, command.ExtendedAddress(0xbf, 0x7c), uint8(0xff))
	test.ExpectFailure(t, command.DecodeExtended(0x34, 0x00).Valid())
}

func TestEncode(t *testing.T) {
	test.ExpectEquality(t, command.Encode(0x10, true), uint8(0x40))
	test.ExpectEquality(t, command.Encode(0x10, false), uint8(0xc0))
	test.ExpectEquality(t, command.Encode(0x0c, true), uint8(0x30))
	test.ExpectEquality(t, command.Encode(0x00, false), uint8(0x80))
}

func TestCommit(t *testing.T) {
	clk := pram.NewClock(interrupts.NewController(), 0)
	mem := pram.NewMemory(pram.Extended, clk)

	wr := command.Decode(0x40, pram.Extended)
	test.ExpectSuccess(t, command.Commit(mem, wr, 0xab))
	test.ExpectEquality(t, command.Fetch(mem, command.Decode(0xc0, pram.Extended)), uint8(0xab))
	test.ExpectEquality(t, mem.Peek(0x10), uint8(0xab))

	// test write changes nothing
	test.ExpectFailure(t, command.Commit(mem, command.Decode(0x30, pram.Extended), 0x80))

	wp := command.Decode(0x34, pram.Extended)
	test.ExpectSuccess(t, command.Commit(mem, wp, 0x80))
	test.ExpectSuccess(t, mem.WriteProtect)

	test.ExpectFailure(t, command.Commit(mem, wr, 0x11))
	test.ExpectFailure(t, command.Commit(mem, command.Decode(0x00, pram.Extended), 0x11))
	x1, x2 := command.EncodeExtended(0x30, true)
	test.ExpectFailure(t, command.Commit(mem, command.DecodeExtended(x1, x2), 0x11))
	test.ExpectEquality(t, mem.Peek(0x10), uint8(0xab))
	test.ExpectEquality(t, clk.Seconds(), uint32(0))

	// only bit 7 matters
	test.ExpectSuccess(t, command.Commit(mem, wp, 0x7f))
	test.ExpectFailure(t, mem.WriteProtect)

	test.ExpectSuccess(t, command.Commit(mem, command.DecodeExtended(x1, x2), 0x55))
	test.ExpectEquality(t, command.Fetch(mem, command.DecodeExtended(command.EncodeExtended(0x30, false))), uint8(0x55))
}
