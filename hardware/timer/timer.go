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

// Package timer implements the 8-bit prescaled timer of the device and the
// accumulator that turns timer overflows into a drift-free one second signal.
//
// The timer counts up once per prescaled clock tick and raises an overflow
// when it wraps from 255 to 0. The length of half a second is rarely a whole
// number of overflows, so the accumulator counts whole overflows and then
// reloads the timer so that the next overflow happens after the remaining
// ticks. The fractional part of the half second is accumulated separately and
// adds one extra tick to the remainder whenever it carries. Over time the
// average half second is exact.
package timer

import "fmt"

// Timer is the 8-bit up counter. Overflow is called whenever the counter
// wraps to zero.
type Timer struct {
	Counter uint8

	// called on every overflow. in the device this raises the timer overflow
	// interrupt
	Overflow func()

	// total number of ticks since reset
	Ticks uint64
}

// NewTimer is the preferred method of initialisation for the Timer type.
func NewTimer(overflow func()) *Timer {
	return &Timer{
		Overflow: overflow,
	}
}

func (tmr *Timer) String() string {
	return fmt.Sprintf("TCNT=%#02x ticks=%d", tmr.Counter, tmr.Ticks)
}

// Reload sets the value of the counter. The next overflow happens after
// 256-v ticks.
func (tmr *Timer) Reload(v uint8) {
	tmr.Counter = v
}

// Step timer forward one prescaled tick.
func (tmr *Timer) Step() {
	tmr.Ticks++
	tmr.Counter++
	if tmr.Counter == 0 && tmr.Overflow != nil {
		tmr.Overflow()
	}
}

// Advance the timer by a number of ticks. The result is the same as calling
// Step() the same number of times. The overflow function may reload the
// counter.
func (tmr *Timer) Advance(ticks uint64) {
	for ticks > 0 {
		toOverflow := 256 - uint64(tmr.Counter)
		if ticks < toOverflow {
			tmr.Counter += uint8(ticks)
			tmr.Ticks += ticks
			return
		}
		ticks -= toOverflow
		tmr.Ticks += toOverflow
		tmr.Counter = 0
		if tmr.Overflow != nil {
			tmr.Overflow()
		}
	}
}
