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

// Package pram is the storage of the device: the seconds counter, the
// parameter memory and the write-protect register.
//
// Parameter memory is zero filled at boot and write-protect is clear.
// Persistence across power loss is the business of the image package.
package pram

import (
	"fmt"
	"strings"
)

// Memory is the storage of the device.
type Memory struct {
	Mode Mode

	// parameter memory. the length is Mode.Size()
	Data []uint8

	// when set all writes to the seconds counter and the parameter memory
	// are suppressed
	WriteProtect bool

	Clock *Clock
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory(mode Mode, clock *Clock) *Memory {
	return &Memory{
		Mode:  mode,
		Data:  make([]uint8, mode.Size()),
		Clock: clock,
	}
}

func (mem *Memory) String() string {
	return fmt.Sprintf("%s %d bytes wp=%v secs=%#08x", mem.Mode, len(mem.Data), mem.WriteProtect, mem.Clock.Seconds())
}

// Peek returns the byte at a linear memory address. Addresses outside of the
// memory read as zero.
func (mem *Memory) Peek(addr uint8) uint8 {
	if int(addr) >= len(mem.Data) {
		return 0
	}
	return mem.Data[addr]
}

// Poke sets the byte at a linear memory address, regardless of the
// write-protect register. Addresses outside of the memory are ignored.
func (mem *Memory) Poke(addr uint8, v uint8) {
	if int(addr) < len(mem.Data) {
		mem.Data[addr] = v
	}
}

// Reset memory to its boot state. The seconds counter is not changed.
func (mem *Memory) Reset() {
	clear(mem.Data)
	mem.WriteProtect = false
}

// Dump memory contents as rows of 16 bytes.
func (mem *Memory) Dump() string {
	s := strings.Builder{}
	for i := 0; i < len(mem.Data); i += 16 {
		s.WriteString(fmt.Sprintf("%02X-", i))
		for _, v := range mem.Data[i:min(i+16, len(mem.Data))] {
			s.WriteString(fmt.Sprintf(" %02X", v))
		}
		s.WriteString("\n")
	}
	return s.String()
}
