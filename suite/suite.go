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

// Package suite is the automated test suite for a device attached to the
// bench. It exercises the device through the host library in the same way as
// the host computer would: the one second interrupt, the clock registers,
// write-protect, the traditional and extended memory views, bulk transfers
// and recovery from an interrupted transaction.
//
// Each test prints one status line. Lines begin with the elapsed bench time,
// followed by PASS:, FAIL:, SKIP: or INFO:.
//
//	[   0.000000000 ] INFO:random seed = 0x00001234
//	[   3.000000000 ] PASS:1-second interrupt line
//
// A summary of the number of passed, failed and skipped tests ends the
// output.
package suite

import (
	"fmt"
	"io"
	"time"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/host"
	"github.com/macrtc/macrtc/monitor"
	"github.com/macrtc/macrtc/random"
)

// NumTests is the number of tests in the suite.
const NumTests = 18

// Options for the test suite.
type Options struct {
	// print the values being compared
	Verbose bool

	// run the tests that depend on the passage of time. these tests are
	// slow when the bench is running in real time
	SimRealTime bool

	// run the tests that require extended memory
	TestXPram bool

	// seed for the random tests. zero means a new seed for every run
	Seed int64
}

// Result of the test suite.
type Result struct {
	Passed  int
	Failed  int
	Skipped int
	Seed    int64
}

// Ok returns true if no tests failed.
func (r Result) Ok() bool {
	return r.Failed == 0
}

func (r Result) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped", r.Passed, r.Failed, r.Skipped)
}

type suite struct {
	opts  Options
	out   io.Writer
	bench *bench.Bench
	host  *host.Host
	mon   *monitor.Monitor
	rnd   *random.Random
	start time.Duration

	failed  int
	skipped int
}

// Run the test suite on the bench. Output is written to out.
func Run(b *bench.Bench, out io.Writer, opts Options) Result {
	s := &suite{
		opts:  opts,
		out:   out,
		bench: b,
		host:  b.Host,
		mon:   monitor.NewMonitor(b.Host, out),
		rnd:   random.NewRandom(opts.Seed),
		start: b.Elapsed,
	}
	_ = s.mon.SetMode(monitor.XPram)

	s.status("INFO:")
	fmt.Fprintf(s.out, "random seed = 0x%08x\n", s.rnd.Seed())

	s.oneSecond()
	s.testWrite()
	s.readClock()
	s.writeReadClock()
	s.writeProtect()
	s.overlap()
	s.consistentIncrement()
	s.randomTrad()
	s.randomXPram()
	s.loadDumpTrad()
	s.loadDumpXPram()
	s.recovery()

	r := Result{
		Passed:  NumTests - s.failed - s.skipped,
		Failed:  s.failed,
		Skipped: s.skipped,
		Seed:    s.rnd.Seed(),
	}
	fmt.Fprintf(s.out, "\n%s\n", r)
	return r
}

// status prints the elapsed time and the status word.
func (s *suite) status(status string) {
	e := s.bench.Elapsed - s.start
	fmt.Fprintf(s.out, "[ %3d.%09d ] %s", int64(e/time.Second), int64(e%time.Second), status)
}

func (s *suite) info(format string, args ...any) {
	if s.opts.Verbose {
		s.status("INFO:")
		fmt.Fprintf(s.out, format, args...)
		fmt.Fprintln(s.out)
	}
}

func (s *suite) report(ok bool, name string) {
	if ok {
		s.status("PASS:")
	} else {
		s.status("FAIL:")
		s.failed++
	}
	fmt.Fprintln(s.out, name)
}

func (s *suite) skip(name string) {
	s.status("SKIP:")
	fmt.Fprintln(s.out, name)
	s.skipped++
}

// retry a test once. a one second boundary can fall in the middle of a test
// that reads the clock.
func retry(f func() bool) bool {
	return f() || f()
}

func (s *suite) compareTime(expect, actual uint32) bool {
	s.info("0x%08x ?= 0x%08x", expect, actual)
	return expect == actual
}

func (s *suite) oneSecond() {
	const name = "1-second interrupt line"
	if !s.opts.SimRealTime {
		s.skip(name)
		return
	}

	s.report(retry(func() bool {
		expect := s.host.Time()
		for range 3 {
			s.host.WaitOneSecond()
			expect++
			if !s.compareTime(expect, s.host.Time()) {
				return false
			}
		}
		return true
	}), name)
}

func (s *suite) testWrite() {
	// there is nothing to check. the test write does nothing
	s.host.TestWrite()
	s.report(true, "Test write")
}

func (s *suite) readClock() {
	const name = "Read clock registers"
	if !s.opts.SimRealTime {
		s.skip(name)
		return
	}
	s.report(s.host.DumpTime() == nil, name)
}

func (s *suite) writeReadClock() {
	const name = "Write and read clock time registers"
	if !s.opts.SimRealTime {
		s.skip(name)
		return
	}

	s.report(retry(func() bool {
		const testTime = 0x983b80d5
		s.host.SetTime(testTime)
		_ = s.host.DumpTime()
		return s.compareTime(s.host.Time(), testTime)
	}), name)
}

// protected writes the complement of the value at an address with
// write-protect set or clear and reports whether the write took effect as
// expected.
func (s *suite) protected(protect bool, read func() uint8, write func(uint8), name string) {
	if protect {
		s.host.SetWriteProtect()
	} else {
		s.host.ClearWriteProtect()
	}

	v := ^read()
	write(v)
	actual := read()

	if protect {
		s.info("0x%02x ?!= 0x%02x", actual, v)
		s.report(actual != v, name)
	} else {
		s.info("0x%02x ?= 0x%02x", actual, v)
		s.report(actual == v, name)
	}
}

func (s *suite) writeProtect() {
	clockRead := func() uint8 { return s.host.GenSendReadCmd(0x07) }
	clockWrite := func(v uint8) { s.host.GenSendWriteCmd(0x07, v) }
	s.protected(true, clockRead, clockWrite, "Clock register write nulled with write-protect enabled")
	s.protected(false, clockRead, clockWrite, "Clock register write with write-protect disabled")

	tradRead := func() uint8 { return s.host.GenSendReadCmd(0x08) }
	tradWrite := func(v uint8) { s.host.GenSendWriteCmd(0x08, v) }
	s.protected(true, tradRead, tradWrite, "Traditional PRAM write nulled with write-protect enabled")
	s.protected(false, tradRead, tradWrite, "Traditional PRAM write with write-protect disabled")

	xRead := func() uint8 { return s.host.GenSendReadXCmd(0x30) }
	xWrite := func(v uint8) { s.host.GenSendWriteXCmd(0x30, v) }
	if s.opts.TestXPram {
		s.protected(true, xRead, xWrite, "XPRAM write nulled with write-protect enabled")
		s.protected(false, xRead, xWrite, "XPRAM write with write-protect disabled")
	} else {
		s.skip("XPRAM write nulled with write-protect enabled")
		s.skip("XPRAM write with write-protect disabled")
	}
}

// overlapping checks that the traditional address and the extended address
// show the same byte, before and after a write to the traditional address.
func (s *suite) overlapping(addr uint8, name string) {
	if !s.opts.TestXPram {
		s.skip(name)
		return
	}

	ok := true
	check := func() uint8 {
		g := s.host.GenSendReadCmd(addr)
		x := s.host.GenSendReadXCmd(addr)
		s.info(" 0x%02x ?= 0x%02x", g, x)
		ok = ok && g == x
		return g
	}

	g := check()
	s.host.GenSendWriteCmd(addr, ^g)
	check()
	s.report(ok, name)
}

func (s *suite) overlap() {
	s.overlapping(0x10, "Group 1 and XPRAM memory overlap")
	s.overlapping(0x08, "Group 2 and XPRAM memory overlap")
}

func (s *suite) consistentIncrement() {
	const name = "Consistent 1-second interrupt and clock register increment"
	if !s.opts.SimRealTime {
		s.skip(name)
		return
	}

	s.report(retry(func() bool {
		_ = s.host.DumpTime()
		for _, n := range []int{1, 1, 3} {
			for range n {
				s.host.WaitOneSecond()
			}
			// the dump takes a quarter of a second and may itself cross
			// a second boundary
			irq := s.host.Interrupts()
			expect := s.host.Time()
			_ = s.host.DumpTime()
			expect += uint32(s.host.Interrupts() - irq)
			if !s.compareTime(expect, s.host.Time()) {
				return false
			}
		}
		return true
	}), name)
}

// randomWriteRead writes random values to addresses drawn from the pool and
// reads them back in a random order.
func (s *suite) randomWriteRead(pool []uint8, n int, read func(uint8) uint8, write func(uint8, uint8)) bool {
	addrs := s.rnd.Draw(pool, n)
	data := make([]uint8, len(addrs))
	for i, a := range addrs {
		data[i] = s.rnd.Byte()
		write(a, data[i])
	}

	ok := true
	for len(addrs) > 0 {
		i := s.rnd.Intn(len(addrs))
		actual := read(addrs[i])
		s.info("0x%02x: 0x%02x ?= 0x%02x", addrs[i], actual, data[i])
		ok = ok && actual == data[i]

		last := len(addrs) - 1
		addrs[i], data[i] = addrs[last], data[last]
		addrs, data = addrs[:last], data[:last]
	}
	return ok
}

func (s *suite) randomTrad() {
	// the traditional addresses that are memory. the clock, test-write,
	// write-protect and extended command addresses are left alone
	var pool []uint8
	for a := uint8(0x08); a < 0x20; a++ {
		if a < 0x0c || a >= 0x10 {
			pool = append(pool, a)
		}
	}

	s.report(s.randomWriteRead(pool, 8, s.host.GenSendReadCmd, s.host.GenSendWriteCmd),
		"Random traditional PRAM register write/read")
}

func (s *suite) randomXPram() {
	const name = "Random XPRAM register write/read"
	if !s.opts.TestXPram {
		s.skip(name)
		return
	}

	pool := make([]uint8, 256)
	for i := range pool {
		pool[i] = uint8(i)
	}
	s.report(s.randomWriteRead(pool, 64, s.host.GenSendReadXCmd, s.host.GenSendWriteXCmd), name)
}

func (s *suite) dump(title string, addrs string) {
	if s.opts.Verbose {
		s.status(fmt.Sprintf("INFO:%s\n", title))
		_ = s.mon.Exec(addrs)
	}
}

func (s *suite) loadDumpTrad() {
	expect := make([]uint8, 20)
	for i := range expect {
		expect[i] = s.rnd.Byte()
	}
	s.host.SetTradMem(expect)
	s.dump("Expected data:", "0008.001f\n")
	s.host.LoadAllTradMem()

	// clear the host copy so that stale data isn't compared
	s.host.SetTradMem(make([]uint8, 20))
	s.host.DumpAllTradMem()
	s.dump("Actual data:", "0008.001f\n")

	s.report(string(s.host.TradMem()) == string(expect), "Load and dump traditional PRAM")
}

func (s *suite) loadDumpXPram() {
	const name = "Load and dump XPRAM"
	if !s.opts.TestXPram {
		s.skip(name)
		return
	}

	var expect [256]uint8
	for i := range expect {
		expect[i] = s.rnd.Byte()
	}
	s.host.PRAM = expect
	s.dump("Expected data:", "0000.00ff\n")
	s.host.LoadAllXMem()

	clear(s.host.PRAM[:])
	s.host.DumpAllXMem()
	s.dump("Actual data:", "0000.00ff\n")

	s.report(s.host.PRAM == expect, name)
}

func (s *suite) recovery() {
	s.host.GenSendWriteCmd(0x10, 0xcd)

	// six bits of a write command to the same address. if the device did not
	// recover it would take the next bits as the data to write
	s.host.SendPartialCmd(host.GenCmd(0x10, true), 6)

	v := s.host.GenSendReadCmd(0x10)
	s.info("0x%02x ?= 0x%02x", v, 0xcd)
	s.report(v == 0xcd, "Recovery from invalid communication")
}
