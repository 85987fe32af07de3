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

package serial_test

import (
	"testing"

	"github.com/macrtc/macrtc/hardware/interrupts"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/hardware/serial"
	"github.com/macrtc/macrtc/logger"
	"github.com/macrtc/macrtc/test"
)

type rig struct {
	t    *testing.T
	wire *pins.Wire
	host *pins.Endpoint
	mem  *pram.Memory
	ser  *serial.Serial
}

func newRig(t *testing.T, mode pram.Mode) *rig {
	w := pins.NewWire("data")
	mem := pram.NewMemory(mode, pram.NewClock(interrupts.NewController(), 0x983b80d5))
	r := &rig{
		t:    t,
		wire: w,
		host: w.Endpoint("host"),
		mem:  mem,
	}
	r.ser = serial.NewSerial(logger.Deny, w.Endpoint("device"), mem)
	r.ser.Select()
	return r
}

// send byte from host. the host sets the data line before each falling edge
func (r *rig) send(v uint8) {
	for i := 7; i >= 0; i-- {
		pins.Drive(r.host, pins.LevelFromBit(v>>i&1))
		r.ser.Rising()
		r.ser.Falling()
	}
	r.host.SetAsInput()
}

// receive byte from device. the host samples the data line after each falling
// edge
func (r *rig) recv() uint8 {
	var v uint8
	for range 8 {
		r.ser.Rising()
		r.ser.Falling()
		v = v<<1 | r.wire.Level().Bit()
	}
	return v
}

func TestWriteThenRead(t *testing.T) {
	r := newRig(t, pram.Extended)
	r.send(0x40)
	test.ExpectEquality(t, r.ser.State, serial.ReceivingData)
	r.send(0xab)
	test.ExpectEquality(t, r.ser.State, serial.Idle)
	test.ExpectEquality(t, r.mem.Peek(0x10), uint8(0xab))

	r.ser.Select()
	r.send(0xc0)
	test.ExpectEquality(t, r.ser.State, serial.SendingData)
	test.ExpectEquality(t, r.recv(), uint8(0xab))

	// the data line is released on the rising edge after the last bit
	test.ExpectEquality(t, r.ser.State, serial.SendingData)
	r.ser.Rising()
	test.ExpectEquality(t, r.ser.State, serial.Idle)
	test.ExpectEquality(t, r.wire.Level(), pins.High)
	test.ExpectEquality(t, r.ser.Completed, uint64(2))
}

func TestReadSeconds(t *testing.T) {
	r := newRig(t, pram.Legacy)

	expect := []uint8{0xd5, 0x80, 0x3b, 0x98}
	for i, cmd := range []uint8{0x80, 0x84, 0x88, 0x8c} {
		r.ser.Select()
		r.send(cmd)
		test.ExpectEquality(t, r.recv(), expect[i])
		r.ser.Abort()
	}

	// deselecting after the last bit is the normal end of a read
	test.ExpectEquality(t, r.ser.Aborted, uint64(0))
	test.ExpectEquality(t, r.ser.Completed, uint64(4))

	r.ser.Select()
	r.send(0x80)
	r.ser.Rising()
	r.ser.Falling()
	r.ser.Abort()
	test.ExpectEquality(t, r.ser.Aborted, uint64(1))
	test.ExpectEquality(t, r.wire.Level(), pins.High)
}

func TestExtended(t *testing.T) {
	r := newRig(t, pram.Extended)
	r.send(0x39)
	test.ExpectEquality(t, r.ser.State, serial.ReceivingExtendedAddress)
	r.send(0x40)
	test.ExpectEquality(t, r.ser.State, serial.ReceivingExtendedData)
	r.send(0x55)
	test.ExpectEquality(t, r.mem.Peek(0x30), uint8(0x55))

	r.ser.Select()
	r.send(0xb9)
	r.send(0x40)
	test.ExpectEquality(t, r.recv(), uint8(0x55))
}

func TestExtendedInLegacy(t *testing.T) {
	r := newRig(t, pram.Legacy)
	r.send(0x39)
	test.ExpectEquality(t, r.ser.State, serial.Idle)
	test.ExpectEquality(t, r.ser.Invalid, uint64(1))

	// remaining bytes of the transaction are ignored
	r.send(0x40)
	r.send(0x55)
	test.ExpectEquality(t, r.ser.State, serial.Idle)
	for _, v := range r.mem.Data {
		test.ExpectEquality(t, v, uint8(0))
	}
}

func TestWriteProtect(t *testing.T) {
	r := newRig(t, pram.Legacy)
	r.send(0x34)
	r.send(0x80)
	test.ExpectSuccess(t, r.mem.WriteProtect)

	r.ser.Select()
	r.send(0x40)
	r.send(0x99)
	test.ExpectEquality(t, r.mem.Peek(0x00), uint8(0))

	r.ser.Select()
	r.send(0x00)
	r.send(0x00)
	test.ExpectEquality(t, r.mem.Clock.Seconds(), uint32(0x983b80d5))

	r.ser.Select()
	r.send(0x34)
	r.send(0x00)
	test.ExpectFailure(t, r.mem.WriteProtect)

	// write-protect register is write only
	r.ser.Select()
	r.send(0xb4)
	test.ExpectEquality(t, r.ser.State, serial.Idle)
}

func TestAbortPartialByte(t *testing.T) {
	r := newRig(t, pram.Legacy)
	r.send(0x40)

	// six of eight data bits
	for range 6 {
		pins.Drive(r.host, pins.High)
		r.ser.Falling()
	}
	r.ser.Abort()
	test.ExpectEquality(t, r.ser.State, serial.Idle)
	test.ExpectEquality(t, r.ser.Tx, serial.Transaction{})
	test.ExpectEquality(t, r.mem.Peek(0x00), uint8(0))
	r.host.SetAsInput()

	// next transaction is unaffected
	r.ser.Select()
	r.send(0x40)
	r.send(0x12)
	r.ser.Select()
	r.send(0xc0)
	test.ExpectEquality(t, r.recv(), uint8(0x12))
}

func TestAbortWhileSending(t *testing.T) {
	r := newRig(t, pram.Legacy)
	r.mem.Poke(0x00, 0x00)
	r.send(0xc0)

	// device drives the line low for the first bit
	r.ser.Falling()
	test.ExpectEquality(t, r.wire.Level(), pins.Low)

	r.ser.Abort()
	test.ExpectEquality(t, r.wire.Level(), pins.High)
	test.ExpectEquality(t, r.ser.State, serial.Idle)
}

func TestEdgesWhileIdle(t *testing.T) {
	r := newRig(t, pram.Legacy)
	r.ser.Abort()
	r.send(0x40)
	r.send(0xff)
	test.ExpectEquality(t, r.mem.Peek(0x00), uint8(0))
	test.ExpectEquality(t, r.ser.State, serial.Idle)
}
