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

// Package command decodes the command bytes sent by the host into the
// resource they address.
//
// A traditional command is one byte:
//
//	bit 7     1 = read, 0 = write
//	bits 6-2  five bit field selecting the resource
//	bits 1-0  ignored
//
// The field selects the resource as follows:
//
//	0-7    seconds counter byte (field & 3). 0x80/0x90 both read byte 0
//	8-11   group 2 memory (field & 3)
//	12     test register. write only, the value is discarded
//	13     write-protect register. write only, bit 7 of the value
//	14-15  extended command prefix
//	16-31  group 1 memory (field & 15)
//
// An extended command is two bytes. The first byte has the pattern
// x0111aaa and the second byte has the pattern xbbbbbxx. The eight bit
// address is aaabbbbb. Bit 7 of the first byte selects read or write.
//
// Decoding depends on the storage mode. A legacy mode device does not
// recognise the extended prefix and treats it as invalid.
package command

import (
	"fmt"

	"github.com/macrtc/macrtc/hardware/pram"
)

// Resource addressed by a command.
type Resource int

// List of valid Resource values.
const (
	Invalid Resource = iota
	SecondsByte
	LegacyMemory
	ExtendedMemory
	TestWrite
	WriteProtect
	ExtendedPrefix
)

func (r Resource) String() string {
	switch r {
	case SecondsByte:
		return "seconds"
	case LegacyMemory:
		return "memory"
	case ExtendedMemory:
		return "xmemory"
	case TestWrite:
		return "test"
	case WriteProtect:
		return "write-protect"
	case ExtendedPrefix:
		return "extended"
	}
	return "invalid"
}

// Command is a decoded command.
type Command struct {
	Write    bool
	Resource Resource

	// seconds byte number for SecondsByte. the concrete storage address for
	// LegacyMemory and ExtendedMemory
	Index uint8
}

func (c Command) String() string {
	dir := "read"
	if c.Write {
		dir = "write"
	}
	switch c.Resource {
	case SecondsByte, LegacyMemory, ExtendedMemory:
		return fmt.Sprintf("%s %s %#02x", dir, c.Resource, c.Index)
	}
	return fmt.Sprintf("%s %s", dir, c.Resource)
}

// Valid returns false if the command is not understood by the device.
func (c Command) Valid() bool {
	return c.Resource != Invalid
}

// ReadFlag is bit 7 of a command byte.
const ReadFlag = 0x80

// IsExtended returns true if the command byte has the extended prefix
// pattern.
func IsExtended(cmd uint8) bool {
	return cmd&0x78 == 0x38
}

// Decode the first command byte.
func Decode(cmd uint8, mode pram.Mode) Command {
	c := Command{Write: cmd&ReadFlag == 0}
	field := (cmd & 0x7f) >> 2

	switch {
	case field < 8:
		c.Resource = SecondsByte
		c.Index = field & 3
	case field < 12:
		c.Resource = LegacyMemory
		c.Index = mode.Group2Base() + field&3
	case field == 12:
		if c.Write {
			c.Resource = TestWrite
		}
	case field == 13:
		if c.Write {
			c.Resource = WriteProtect
		}
	case field < 16:
		if mode.Extended() {
			c.Resource = ExtendedPrefix
		}
	default:
		c.Resource = LegacyMemory
		c.Index = mode.Group1Base() + field&0x0f
	}

	return c
}

// DecodeExtended decodes the two bytes of an extended command. The first
// byte must have the extended prefix pattern.
func DecodeExtended(cmd1 uint8, cmd2 uint8) Command {
	if !IsExtended(cmd1) {
		return Command{Write: cmd1&ReadFlag == 0}
	}
	return Command{
		Write:    cmd1&ReadFlag == 0,
		Resource: ExtendedMemory,
		Index:    ExtendedAddress(cmd1, cmd2),
	}
}

// ExtendedAddress returns the eight bit address of an extended command.
func ExtendedAddress(cmd1 uint8, cmd2 uint8) uint8 {
	return (cmd1&0x07)<<5 | (cmd2&0x7c)>>2
}

// Encode a traditional command for a five bit field. The field is the
// address as seen by the host: 0x00 to 0x1f.
func Encode(field uint8, write bool) uint8 {
	c := (field & 0x1f) << 2
	if !write {
		c |= ReadFlag
	}
	return c
}

// EncodeExtended encodes the two bytes of an extended command.
func EncodeExtended(addr uint8, write bool) (uint8, uint8) {
	cmd1 := 0x38 | (addr&0xe0)>>5
	cmd2 := (addr & 0x1f) << 2
	if !write {
		cmd1 |= ReadFlag
	}
	return cmd1, cmd2
}
