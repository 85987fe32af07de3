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

package command

import "github.com/macrtc/macrtc/hardware/pram"

// Fetch the byte addressed by a read command. Commands that do not address a
// readable resource return zero.
func Fetch(mem *pram.Memory, c Command) uint8 {
	switch c.Resource {
	case SecondsByte:
		return mem.Clock.ReadByte(int(c.Index))
	case LegacyMemory, ExtendedMemory:
		return mem.Peek(c.Index)
	}
	return 0
}

// Commit the data byte of a write command. Returns true if storage was
// changed.
//
// While the write-protect register is set, writes to the seconds counter and
// to memory are suppressed. The write-protect register itself can always be
// written.
func Commit(mem *pram.Memory, c Command, v uint8) bool {
	switch c.Resource {
	case WriteProtect:
		mem.WriteProtect = v&0x80 == 0x80
		return true
	case SecondsByte:
		if mem.WriteProtect {
			return false
		}
		mem.Clock.WriteByte(int(c.Index), v)
		return true
	case LegacyMemory, ExtendedMemory:
		if mem.WriteProtect {
			return false
		}
		mem.Poke(c.Index, v)
		return true
	}
	return false
}
