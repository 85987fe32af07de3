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

package timer

import (
	"fmt"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/clocks"
	"github.com/macrtc/macrtc/hardware/pins"
)

// TooFast is returned when a half second is shorter than one timer overflow.
const TooFast = "timer: %s: half second of %s is shorter than one overflow"

// Accumulator counts timer overflows and produces the one second square wave.
// Overflow() is the body of the timer overflow interrupt handler.
type Accumulator struct {
	timer *Timer

	// the one second line and its current level. the line falls at the start
	// of every second
	out   pins.Line
	Level pins.Level

	// called when the line falls. in the device this increments the seconds
	// counter
	onSecond func()

	OverflowsPerHalf uint32
	RemainderWhole   uint32
	fracNum          uint32
	fracMask         uint32

	// progress through the current half second
	Overflows       uint32
	FracRemain      uint32
	AwaitRemainder  bool
	HalfSecondCount uint64
}

// NewAccumulator is the preferred method of initialisation for the Accumulator
// type. The one second line is set to output low.
func NewAccumulator(crystal clocks.Crystal, tmr *Timer, out pins.Line, onSecond func()) (*Accumulator, error) {
	h, err := crystal.HalfSecond()
	if err != nil {
		return nil, curated.Errorf("timer: %v", err)
	}

	if h.Whole < 256 {
		return nil, curated.Errorf(TooFast, crystal.Name, h)
	}

	acc := &Accumulator{
		timer:            tmr,
		out:              out,
		Level:            pins.Low,
		onSecond:         onSecond,
		OverflowsPerHalf: h.Whole / 256,
		RemainderWhole:   h.Whole % 256,
		fracNum:          h.Num,
		fracMask:         h.Den - 1,
	}

	if acc.out != nil {
		acc.out.SetAsOutputLow()
	}

	return acc, nil
}

func (acc *Accumulator) String() string {
	return fmt.Sprintf("overflows=%d/%d remainder=%d frac=%d/%d line=%s",
		acc.Overflows, acc.OverflowsPerHalf, acc.RemainderWhole,
		acc.FracRemain, acc.fracMask+1, acc.Level)
}

// Overflow is called on every timer overflow.
func (acc *Accumulator) Overflow() {
	if !acc.AwaitRemainder {
		acc.Overflows++
		if acc.Overflows < acc.OverflowsPerHalf {
			return
		}

		rem := acc.RemainderWhole
		acc.FracRemain += acc.fracNum
		if acc.FracRemain > acc.fracMask {
			acc.FracRemain &= acc.fracMask
			rem++
		}

		// the remainder is at most 256 ticks. a reload value of zero is a
		// full 256 ticks
		if rem > 0 {
			acc.timer.Reload(uint8(256 - rem))
			acc.AwaitRemainder = true
			return
		}
	}

	acc.AwaitRemainder = false
	acc.Overflows = 0
	acc.halfSecond()
}

func (acc *Accumulator) halfSecond() {
	acc.HalfSecondCount++
	acc.Level = !acc.Level
	if acc.out != nil {
		pins.Drive(acc.out, acc.Level)
	}
	if acc.Level == pins.Low && acc.onSecond != nil {
		acc.onSecond()
	}
}
