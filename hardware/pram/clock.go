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

package pram

import (
	"github.com/macrtc/macrtc/hardware/interrupts"
)

// DefaultSeconds is midnight on 1st January 1984, counted in seconds from
// the epoch of 1st January 1904.
const DefaultSeconds = uint32(60 * 60 * 24 * (365*4 + 1) * 20)

// Masker is the critical section capability of the interrupt controller.
type Masker interface {
	Disable() interrupts.State
	Restore(interrupts.State)
}

// Clock is the 32-bit seconds counter. It is shared between the timer
// overflow handler, which increments it, and the foreground loop, which reads
// and writes it a byte at a time.
//
// The foreground methods run inside a critical section so that a byte is
// never read or written while an increment is carrying through the other
// bytes.
type Clock struct {
	mask    Masker
	seconds uint32
}

// NewClock is the preferred method of initialisation for the Clock type.
func NewClock(mask Masker, seconds uint32) *Clock {
	return &Clock{
		mask:    mask,
		seconds: seconds,
	}
}

// Increment the seconds counter. Interrupt context only.
func (clk *Clock) Increment() {
	clk.seconds++
}

// Seconds returns the value of the seconds counter.
func (clk *Clock) Seconds() uint32 {
	s := clk.mask.Disable()
	defer clk.mask.Restore(s)
	return clk.seconds
}

// SetSeconds sets the value of the seconds counter.
func (clk *Clock) SetSeconds(v uint32) {
	s := clk.mask.Disable()
	defer clk.mask.Restore(s)
	clk.seconds = v
}

// ReadByte returns the numbered byte of the seconds counter. Byte zero is the
// least significant byte.
func (clk *Clock) ReadByte(n int) uint8 {
	s := clk.mask.Disable()
	defer clk.mask.Restore(s)
	return uint8(clk.seconds >> ((n & 3) * 8))
}

// WriteByte replaces the numbered byte of the seconds counter.
func (clk *Clock) WriteByte(n int, v uint8) {
	shift := (n & 3) * 8
	s := clk.mask.Disable()
	defer clk.mask.Restore(s)
	clk.seconds = clk.seconds&^(0xff<<shift) | uint32(v)<<shift
}
