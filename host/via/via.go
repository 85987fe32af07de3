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

// Package via emulates the part of the host's VIA that is connected to the
// device. Port B of the VIA carries the three serial lines and the one second
// signal raises a VIA interrupt.
//
// Writes to the BufB register only reach a line if the corresponding bit in
// the DirB register is set to output. Switching a bit to input hands the line
// back to the device and from then on the BufB bit follows the level of the
// line.
package via

import (
	"fmt"
	"strings"
	"sync"

	"github.com/macrtc/macrtc/hardware/pins"
)

// Bit numbers of port B.
const (
	RtcData = 0
	RtcClk  = 1
	RtcEnb  = 2
)

// Direction values for the DirB register.
const (
	DirIn  uint8 = 0
	DirOut uint8 = 1
)

// VIA is the host side of the serial lines.
type VIA struct {
	crit sync.Mutex

	// the bufB field is the local copy of the BufB register. bits set to
	// input in the dirB field are replaced with the level of the line when
	// the register is read
	bufB uint8

	// a 1 bit indicates the corresponding BufB bit is used for output
	dirB uint8

	lines [3]pins.Line

	// the one second interrupt flag. set on the falling edge of the one
	// second line
	irqFlag  bool
	irqCount uint64
	onSecond func()
}

// NewVIA is the preferred method of initialisation for the VIA type. All bits
// start as inputs.
func NewVIA(enable pins.Line, clock pins.Line, data pins.Line) *VIA {
	via := &VIA{
		bufB: 0x07,
	}
	via.lines[RtcEnb] = enable
	via.lines[RtcClk] = clock
	via.lines[RtcData] = data
	for _, l := range via.lines {
		l.SetAsInput()
	}
	return via
}

func (via *VIA) String() string {
	via.crit.Lock()
	defer via.crit.Unlock()

	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("BufB: %#02x", via.readBufB()))
	s.WriteString(fmt.Sprintf("  DirB: %#02x", via.dirB))
	s.WriteString(fmt.Sprintf("  IRQ: %v (%d)", via.irqFlag, via.irqCount))
	return s.String()
}

func validBit(bit int) bool {
	return bit >= RtcData && bit <= RtcEnb
}

// WriteBufB sets a bit in the BufB register. The write is ignored if the bit
// is set to input.
func (via *VIA) WriteBufB(bit int, v uint8) {
	if !validBit(bit) {
		return
	}

	via.crit.Lock()
	if (via.dirB>>bit)&0x01 != DirOut {
		via.crit.Unlock()
		return
	}
	via.bufB = setBit(via.bufB, bit, v)
	l := via.lines[bit]
	via.crit.Unlock()

	// the line is driven outside of the critical section because driving a
	// line may cause the device to run
	pins.Drive(l, pins.LevelFromBit(v))
}

// WriteDirB sets the direction of a bit. Setting a bit to output drives the
// line with the current BufB value.
func (via *VIA) WriteDirB(bit int, dir uint8) {
	if !validBit(bit) {
		return
	}

	via.crit.Lock()
	via.dirB = setBit(via.dirB, bit, dir)
	out := dir == DirOut
	v := (via.bufB >> bit) & 0x01
	l := via.lines[bit]
	via.crit.Unlock()

	if out {
		pins.Drive(l, pins.LevelFromBit(v))
	} else {
		l.SetAsInput()
	}
}

// ReadBufB returns the value of a bit in the BufB register.
func (via *VIA) ReadBufB(bit int) uint8 {
	if !validBit(bit) {
		return 0
	}

	via.crit.Lock()
	defer via.crit.Unlock()
	return (via.readBufB() >> bit) & 0x01
}

// DirB returns the value of the DirB register.
func (via *VIA) DirB() uint8 {
	via.crit.Lock()
	defer via.crit.Unlock()
	return via.dirB
}

func (via *VIA) readBufB() uint8 {
	v := via.bufB
	for bit, l := range via.lines {
		if (via.dirB>>bit)&0x01 == DirIn {
			v = setBit(v, bit, l.ReadLevel().Bit())
		}
	}
	return v
}

// OnSecond sets the function to be called when the one second interrupt is
// raised.
func (via *VIA) OnSecond(f func()) {
	via.crit.Lock()
	defer via.crit.Unlock()
	via.onSecond = f
}

// OneSecond should be called whenever the level of the one second line
// changes. Suitable for use with pins.Wire.Watch().
func (via *VIA) OneSecond(l pins.Level) {
	if l != pins.Low {
		return
	}

	via.crit.Lock()
	via.irqFlag = true
	via.irqCount++
	f := via.onSecond
	via.crit.Unlock()

	if f != nil {
		f()
	}
}

// TakeIRQ returns and clears the one second interrupt flag.
func (via *VIA) TakeIRQ() bool {
	via.crit.Lock()
	defer via.crit.Unlock()
	v := via.irqFlag
	via.irqFlag = false
	return v
}

// IRQCount returns the number of one second interrupts since creation.
func (via *VIA) IRQCount() uint64 {
	via.crit.Lock()
	defer via.crit.Unlock()
	return via.irqCount
}

func setBit(r uint8, bit int, v uint8) uint8 {
	if v != 0 {
		return r | (0x01 << bit)
	}
	return r &^ (0x01 << bit)
}
