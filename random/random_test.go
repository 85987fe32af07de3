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

package random_test

import (
	"testing"

	"github.com/macrtc/macrtc/random"
	"github.com/macrtc/macrtc/test"
)

func TestRandom(t *testing.T) {
	a := random.NewRandom(1234)
	b := random.NewRandom(1234)
	test.ExpectEquality(t, a.Seed(), int64(1234))

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Intn(i), b.Intn(i))
	}

	c := random.NewRandom(0)
	test.ExpectInequality(t, c.Seed(), int64(0))
}

func TestDraw(t *testing.T) {
	rnd := random.NewRandom(99)
	pool := []uint8{1, 2, 3, 4, 5, 6, 7, 8}

	d := rnd.Draw(pool, 5)
	test.DemandEquality(t, len(d), 5)

	seen := make(map[uint8]bool)
	for _, v := range d {
		test.ExpectFailure(t, seen[v])
		seen[v] = true
	}
	test.ExpectEquality(t, pool[0], uint8(1))

	// asking for more than the pool holds returns the whole pool
	test.ExpectEquality(t, len(rnd.Draw(pool, 20)), 8)
}
