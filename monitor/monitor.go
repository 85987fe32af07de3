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

// Package monitor implements a miniature Apple II style memory monitor over
// the parameter memory of the device.
//
// The monitor understands the following input. Addresses and bytes are
// hexadecimal.
//
//	ADDR         set the last address
//	(newline)    dump 8 bytes from the last address
//	.END         dump from the last address to END
//	: B B B      write bytes starting at the last address
//	ADDR: B B B  write bytes starting at ADDR
//	G            execute at the last address (always refused)
//
// A hyphen can be used in place of a colon. Commands can be chained on a
// single line, for example "10.1F" or "0: 01 02".
//
// The address space depends on the mode. In Trad mode, addresses 0x00 to 0x1f
// are the traditional command fields, including the seconds bytes. In XPRAM
// mode, addresses 0x00 to 0xff are the linear extended memory. Addresses out
// of range read as zero and ignore writes.
package monitor

import (
	"fmt"
	"io"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/host"
)

// Sentinal errors.
const (
	SyntaxError    = "\a?SYNTAX ERROR"
	InvalidExecute = "\aINVALID EXECUTE MODE"
	UnknownMode    = "monitor: unknown mode (%d)"
)

// Mode of the monitor.
type Mode int

// List of valid Mode values.
const (
	Disabled Mode = iota
	Trad
	XPram
)

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Trad:
		return "trad"
	case XPram:
		return "xpram"
	}
	return "unknown"
}

// Memory is the host library as seen by the monitor.
type Memory interface {
	TradPramCmd(cmd uint8, data uint8) uint8
	WriteXMem(addr uint8, data uint8)
	ReadXMem(addr uint8) uint8
}

// Monitor is the state of the memory monitor.
type Monitor struct {
	mem  Memory
	out  io.Writer
	mode Mode

	// the address used by commands that do not specify one
	last uint16

	// the line being executed and the read position
	line string
	pos  int
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
// The monitor starts disabled.
func NewMonitor(mem Memory, out io.Writer) *Monitor {
	return &Monitor{
		mem: mem,
		out: out,
	}
}

// SetMode changes the mode of the monitor.
func (mon *Monitor) SetMode(m Mode) error {
	if m < Disabled || m > XPram {
		return curated.Errorf(UnknownMode, m)
	}
	mon.mode = m
	return nil
}

// Mode returns the current mode.
func (mon *Monitor) Mode() Mode {
	return mon.mode
}

// Enabled returns true if the mode is not Disabled.
func (mon *Monitor) Enabled() bool {
	return mon.mode != Disabled
}

// LastAddr returns the address used by commands that do not specify one.
func (mon *Monitor) LastAddr() uint16 {
	return mon.last
}

// Access reads or writes an address in the address space of the current
// mode. A read returns the value at the address. A write returns 1 if the
// write was accepted. Zero is returned in all other cases.
func (mon *Monitor) Access(addr uint16, write bool, data uint8) uint8 {
	switch mon.mode {
	case Trad:
		if addr > 0x1f {
			return 0
		}
		return mon.mem.TradPramCmd(host.GenCmd(uint8(addr), write), data)
	case XPram:
		if addr > 0xff {
			return 0
		}
		if write {
			mon.mem.WriteXMem(uint8(addr), data)
			return 1
		}
		return mon.mem.ReadXMem(uint8(addr))
	}
	return 0
}

func isHex(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexVal(ch byte) uint16 {
	switch {
	case ch >= 'a':
		return uint16(ch-'a') + 10
	case ch >= 'A':
		return uint16(ch-'A') + 10
	}
	return uint16(ch - '0')
}

// next returns the next character of the line or zero at the end of the line.
func (mon *Monitor) next() byte {
	if mon.pos >= len(mon.line) {
		mon.pos++
		return 0
	}
	ch := mon.line[mon.pos]
	mon.pos++
	return ch
}

// hex reads at most maxLen hex digits starting with ch. It returns the value
// and the first character after the digits.
func (mon *Monitor) hex(maxLen int, ch byte) (uint16, byte) {
	var v uint16
	for n := 0; n < maxLen && isHex(ch); n++ {
		v = v<<4 | hexVal(ch)
		ch = mon.next()
	}
	return v, ch
}

// Exec executes a line of monitor input. The line should end with a newline
// if a one line dump is wanted. Execution stops at the first error.
func (mon *Monitor) Exec(line string) error {
	mon.line = line
	mon.pos = 0

	ch := mon.next()
	for ch != 0 {
		switch {
		case ch == '\n':
			mon.dump(mon.last, mon.last+7, true)
		case isHex(ch):
			mon.last, ch = mon.hex(4, ch)
			continue
		case ch == '.':
			ch = mon.next()
			if ch == 0 {
				return nil
			}
			var end uint16
			end, ch = mon.hex(4, ch)
			mon.dump(mon.last, end, false)
			if ch != '\n' {
				continue
			}
		case ch == ':' || ch == '-':
			ch = mon.write()
			if ch != '\n' {
				continue
			}
		case ch == 'G' || ch == 'g':
			// memory is never executable
			return curated.Errorf(InvalidExecute)
		case ch == ' ' || ch == '\t':
		default:
			return curated.Errorf(SyntaxError)
		}
		ch = mon.next()
	}
	return nil
}

// dump prints memory from addr to end inclusive in rows of 8. Rows are
// aligned to multiples of 8. If end is before addr one byte is printed. The
// last address is left after the last byte printed.
func (mon *Monitor) dump(addr uint16, end uint16, oneLine bool) {
	fmt.Fprintf(mon.out, "%04X-", addr)
	for {
		v := mon.Access(addr, false, 0)
		addr++
		fmt.Fprintf(mon.out, " %02X", v)
		if addr&0x07 == 0x00 {
			if oneLine {
				break
			}
			if addr != 0 && addr <= end {
				fmt.Fprintf(mon.out, "\n%04X-", addr)
			}
		}
		if addr == 0 || addr > end {
			break
		}
	}
	fmt.Fprintln(mon.out)
	mon.last = addr
}

// write stores bytes from the last address until the end of the line. It
// returns the character that ended the write.
func (mon *Monitor) write() byte {
	addr := mon.last
	ch := mon.next()
	for {
		for ch == ' ' || ch == '\t' {
			ch = mon.next()
		}
		if ch == 0 || ch == '\n' {
			break
		}
		if !isHex(ch) {
			// the main loop reports the syntax error
			break
		}
		var v uint16
		v, ch = mon.hex(2, ch)
		mon.Access(addr, true, uint8(v))
		addr++
	}
	mon.last = addr
	return ch
}
