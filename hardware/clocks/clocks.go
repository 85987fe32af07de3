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

// Package clocks defines the crystal and prescaler combinations that can
// clock the device's timer.
//
// A preset is a whole-number ratio against the timer: the crystal frequency
// in Hz divided by the prescaler gives the number of timer ticks per second.
// The length of half a second in timer ticks is then split into a whole part
// and a fractional part. The fraction is kept as a numerator over a power of
// two denominator so that the timer package can accumulate it without
// division.
package clocks

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/macrtc/macrtc/curated"
)

// Sentinal error patterns.
const (
	UnknownCrystal = "clocks: unknown crystal (%s)"
	NoCompensation = "clocks: %s: half second of %d/%d ticks cannot be compensated"
)

// Crystal describes the timer clock source.
type Crystal struct {
	Name      string
	Frequency uint32
	Prescaler uint32
}

func (c Crystal) String() string {
	return fmt.Sprintf("%s (%dHz /%d)", c.Name, c.Frequency, c.Prescaler)
}

// List of preset crystals.
var (
	// 32.768kHz watch crystal. exactly 256 ticks per half second.
	Watch = Crystal{Name: "32K", Frequency: 32768, Prescaler: 64}

	// 8MHz internal oscillator. 3906.25 ticks per half second.
	Internal8M = Crystal{Name: "8M", Frequency: 8000000, Prescaler: 1024}

	// 8MHz internal oscillator with the /4 fuse. 976.5625 ticks per half second.
	Internal2M = Crystal{Name: "2M", Frequency: 2000000, Prescaler: 1024}
)

// Crystals is the list of preset crystals. The first entry is the default.
var Crystals = []Crystal{Watch, Internal8M, Internal2M}

// CrystalNames returns the list of names of the preset crystals.
func CrystalNames() []string {
	n := make([]string, len(Crystals))
	for i, c := range Crystals {
		n[i] = c.Name
	}
	return n
}

// Lookup preset crystal by name. Matching is case insensitive.
func Lookup(name string) (Crystal, error) {
	for _, c := range Crystals {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return Crystal{}, curated.Errorf(UnknownCrystal, name)
}

// HalfSecond is the length of half a second in timer ticks. The length is
// Whole + Num/Den, with Den always a power of two.
type HalfSecond struct {
	Whole uint32
	Num   uint32
	Den   uint32
}

func (h HalfSecond) String() string {
	if h.Num == 0 {
		return fmt.Sprintf("%d ticks", h.Whole)
	}
	return fmt.Sprintf("%d %d/%d ticks", h.Whole, h.Num, h.Den)
}

// HalfSecond returns the length of half a second in timer ticks.
func (c Crystal) HalfSecond() (HalfSecond, error) {
	if c.Frequency == 0 || c.Prescaler == 0 {
		return HalfSecond{}, curated.Errorf(NoCompensation, c.Name, c.Frequency, c.Prescaler*2)
	}

	n := uint64(c.Frequency)
	d := uint64(c.Prescaler) * 2
	g := gcd(n, d)
	n /= g
	d /= g

	if bits.OnesCount64(d) != 1 {
		return HalfSecond{}, curated.Errorf(NoCompensation, c.Name, n, d)
	}

	return HalfSecond{
		Whole: uint32(n / d),
		Num:   uint32(n % d),
		Den:   uint32(d),
	}, nil
}

// TicksPerSecond returns the timer tick rate as a reduced fraction.
func (c Crystal) TicksPerSecond() (num uint64, den uint64) {
	n := uint64(c.Frequency)
	d := uint64(c.Prescaler)
	if d == 0 {
		return 0, 1
	}
	g := gcd(n, d)
	return n / g, d / g
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
