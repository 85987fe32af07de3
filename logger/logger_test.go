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

package logger_test

import (
	"fmt"
	"testing"

	"github.com/macrtc/macrtc/logger"
	"github.com/macrtc/macrtc/test"
)

func TestLogger(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(100)

	log.Write(tw)
	test.ExpectEquality(t, tw.Compare(""), true)

	log.Log("test", "this is a test")
	log.Write(tw)
	test.ExpectEquality(t, tw.Compare("test: this is a test\n"), true)

	tw.Clear()
	log.Log("test2", "this is another test")
	log.Write(tw)
	test.ExpectEquality(t, tw.Compare("test: this is a test\ntest2: this is another test\n"), true)

	// asking for too many entries in a Tail() should be okay
	tw.Clear()
	log.Tail(tw, 100)
	test.ExpectEquality(t, tw.Compare("test: this is a test\ntest2: this is another test\n"), true)

	tw.Clear()
	log.Tail(tw, 1)
	test.ExpectEquality(t, tw.Compare("test2: this is another test\n"), true)

	tw.Clear()
	log.Tail(tw, 0)
	test.ExpectEquality(t, tw.Compare(""), true)
}

func TestRepeats(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(100)

	log.Log("serial", "abort")
	log.Log("serial", "abort")
	log.Log("serial", "abort")
	log.Write(tw)
	test.ExpectEquality(t, tw.Compare("serial: abort (repeat x3)\n"), true)
	test.ExpectEquality(t, log.Len(), 1)
}

func TestMaximum(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(2)

	log.Logf("tag", "entry %d", 1)
	log.Logf("tag", "entry %d", 2)
	log.Logf("tag", "entry %d", 3)
	log.Write(tw)
	test.ExpectEquality(t, tw.Compare("tag: entry 2\ntag: entry 3\n"), true)
}

func TestDetailTypes(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(10)

	log.Log("err", fmt.Errorf("bad\nthing"))
	log.Log("int", 10)
	log.Write(tw)
	test.ExpectEquality(t, tw.String(), "err: badthing\nint: 10\n")
}

func TestEcho(t *testing.T) {
	tw := &test.CompareWriter{}
	log := logger.NewLogger(10)
	log.SetEcho(tw)

	log.Log("a", "one")
	log.Log("a", "one")
	log.Log("b", "two")
	test.ExpectEquality(t, tw.String(), "a: one\nb: two\n")

	log.SetEcho(nil)
	log.Log("c", "three")
	test.ExpectEquality(t, tw.String(), "a: one\nb: two\n")
}
