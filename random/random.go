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

// Package random provides the random numbers used by the test suite.
//
// Every Random instance is seeded. A zero seed is replaced with a seed taken
// from the time the program started. The seed is always available so that a
// failing run can be repeated.
package random

import (
	"math/rand"
	"time"
)

var baseSeed int64

func init() {
	baseSeed = time.Now().UnixNano()&0xffffffff | 1
}

// Random is a source of random numbers with a known seed.
type Random struct {
	seed int64
	rnd  *rand.Rand
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = baseSeed
	}
	return &Random{
		seed: seed,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed used to create the instance.
func (rnd *Random) Seed() int64 {
	return rnd.seed
}

// Intn returns a number in the range 0 to n-1.
func (rnd *Random) Intn(n int) int {
	return rnd.rnd.Intn(n)
}

// Byte returns a random byte.
func (rnd *Random) Byte() uint8 {
	return uint8(rnd.rnd.Intn(256))
}

// Draw returns n values chosen from the pool without repetition. The pool
// is not changed.
func (rnd *Random) Draw(pool []uint8, n int) []uint8 {
	p := make([]uint8, len(pool))
	copy(p, pool)
	d := make([]uint8, 0, n)
	for len(d) < n && len(p) > 0 {
		i := rnd.Intn(len(p))
		d = append(d, p[i])
		p[i] = p[len(p)-1]
		p = p[:len(p)-1]
	}
	return d
}
