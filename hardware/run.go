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

package hardware

import (
	"context"
	"errors"
	"time"

	"github.com/macrtc/macrtc/logger"
)

// Run is the foreground loop of the device. It handles events until there
// are none left and then waits for the next interrupt. Returns nil when the
// context is cancelled.
func (chip *Chip) Run(ctx context.Context) error {
	for {
		for chip.Step() {
		}

		if err := chip.IC.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// Elapse advances the timer by the number of ticks in a duration. Fractions
// of a tick are carried over to the next call, so that over many calls no
// time is lost.
func (chip *Chip) Elapse(d time.Duration) {
	if d <= 0 {
		return
	}
	const nanos = uint64(time.Second)

	n := uint64(d)*chip.tickNum + chip.tickCarry
	div := chip.tickDen * nanos
	chip.tickCarry = n % div
	chip.Tick(n / div)
}

// RunCrystal turns the passing of wall clock time into timer ticks. The timer
// is advanced once every quantum. Returns nil when the context is cancelled.
func (chip *Chip) RunCrystal(ctx context.Context, quantum time.Duration) error {
	if quantum <= 0 {
		quantum = time.Millisecond
	}

	tck := time.NewTicker(quantum)
	defer tck.Stop()

	logger.Logf(chip.env, "hardware", "crystal running with %s quantum", quantum)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case now := <-tck.C:
			chip.Elapse(now.Sub(last))
			last = now
		}
	}
}
