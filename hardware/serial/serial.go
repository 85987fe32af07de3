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

// Package serial implements the transaction state machine of the device's
// three wire serial interface.
//
// A transaction begins when the enable line is asserted and ends when it is
// deasserted. Bits are transferred most significant bit first. The host
// changes the data line while the clock is low and the device samples it on
// the falling clock edge. In the other direction the device drives a bit on
// the falling clock edge and the host samples it a quarter cycle later.
//
// The first byte is a command. Depending on the command the transaction
// continues with a second command byte (extended commands), a data byte sent
// by the host (writes) or a data byte sent by the device (reads). Commands
// that the device does not understand end the transaction silently.
package serial

import (
	"fmt"
	"strings"

	"github.com/macrtc/macrtc/hardware/command"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/logger"
)

// State records how the next clock edge will be interpreted.
type State int

// List of valid State values.
const (
	Idle State = iota
	ReceivingCommand
	ReceivingExtendedAddress
	ReceivingData
	ReceivingExtendedData
	SendingData
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ReceivingCommand:
		return "receiving command"
	case ReceivingExtendedAddress:
		return "receiving extended address"
	case ReceivingData:
		return "receiving data"
	case ReceivingExtendedData:
		return "receiving extended data"
	case SendingData:
		return "sending data"
	}
	return "unknown"
}

// Transaction is the scratch state of a single transaction. It is replaced
// in its entirety at the start and end of every transaction.
type Transaction struct {
	// bits are shifted into and out of the Bits field. BitsCt is the number
	// of bits transferred in the current byte
	Bits   uint8
	BitsCt int

	// the first command byte
	First uint8

	// the decoded command
	Command command.Command

	// the byte being sent to the host
	Data uint8
}

// Serial is the transaction state machine.
type Serial struct {
	perm logger.Permission

	data pins.Line
	mem  *pram.Memory

	State State
	Tx    Transaction

	// statistics
	Completed uint64
	Aborted   uint64
	Invalid   uint64
}

// NewSerial is the preferred method of initialisation for the Serial type.
// The data line is set to input.
func NewSerial(perm logger.Permission, data pins.Line, mem *pram.Memory) *Serial {
	ser := &Serial{
		perm: perm,
		data: data,
		mem:  mem,
	}
	ser.data.SetAsInput()
	return ser
}

func (ser *Serial) String() string {
	s := strings.Builder{}
	s.WriteString(ser.State.String())
	switch ser.State {
	case ReceivingCommand, ReceivingExtendedAddress, ReceivingData, ReceivingExtendedData:
		s.WriteString(fmt.Sprintf(" [%d bits %#02x]", ser.Tx.BitsCt, ser.Tx.Bits))
	case SendingData:
		s.WriteString(fmt.Sprintf(" [%d of %#02x]", ser.Tx.BitsCt, ser.Tx.Data))
	}
	if ser.State != Idle && ser.State != ReceivingCommand && ser.State != ReceivingExtendedAddress {
		s.WriteString(fmt.Sprintf(" %s", ser.Tx.Command))
	}
	return s.String()
}

// Select begins a new transaction. Called when the enable line is asserted.
func (ser *Serial) Select() {
	ser.Tx = Transaction{}
	ser.data.SetAsInput()
	ser.State = ReceivingCommand
}

// Abort ends the current transaction. Called when the enable line is
// deasserted. A partially received byte is discarded.
func (ser *Serial) Abort() {
	switch ser.State {
	case Idle:
		return
	case ReceivingCommand:
		if ser.Tx.BitsCt > 0 {
			logger.Logf(ser.perm, "serial", "abort after %d bits", ser.Tx.BitsCt)
			ser.Aborted++
		}
	case SendingData:
		// the host is not required to raise the clock after the last bit
		if ser.Tx.BitsCt >= 8 {
			ser.Completed++
		} else {
			logger.Logf(ser.perm, "serial", "abort while %s", ser.State)
			ser.Aborted++
		}
	default:
		logger.Logf(ser.perm, "serial", "abort while %s", ser.State)
		ser.Aborted++
	}
	ser.idle()
}

func (ser *Serial) idle() {
	ser.Tx = Transaction{}
	ser.data.SetAsInput()
	ser.State = Idle
}

// recvBit returns true when a full byte has been received.
func (ser *Serial) recvBit(v pins.Level) bool {
	if ser.Tx.BitsCt >= 8 {
		ser.Tx.Bits = 0
		ser.Tx.BitsCt = 0
	}
	if v == pins.High {
		ser.Tx.Bits |= 0x01 << (7 - ser.Tx.BitsCt)
	}
	ser.Tx.BitsCt++
	return ser.Tx.BitsCt == 8
}

// sendBit returns the next bit of the data byte.
func (ser *Serial) sendBit() pins.Level {
	v := (ser.Tx.Data >> (7 - ser.Tx.BitsCt)) & 0x01
	ser.Tx.BitsCt++
	return pins.LevelFromBit(v)
}

func (ser *Serial) resetBits() {
	ser.Tx.Bits = 0
	ser.Tx.BitsCt = 0
}

// Falling is called on a falling edge of the clock while the device is
// selected.
func (ser *Serial) Falling() {
	switch ser.State {
	case Idle:

	case ReceivingCommand:
		if !ser.recvBit(ser.data.ReadLevel()) {
			return
		}
		ser.Tx.First = ser.Tx.Bits
		c := command.Decode(ser.Tx.First, ser.mem.Mode)

		switch c.Resource {
		case command.Invalid:
			logger.Logf(ser.perm, "serial", "invalid command %#02x", ser.Tx.First)
			ser.Invalid++
			ser.idle()
		case command.ExtendedPrefix:
			ser.resetBits()
			ser.State = ReceivingExtendedAddress
		default:
			ser.begin(c, ReceivingData)
		}

	case ReceivingExtendedAddress:
		if !ser.recvBit(ser.data.ReadLevel()) {
			return
		}
		ser.begin(command.DecodeExtended(ser.Tx.First, ser.Tx.Bits), ReceivingExtendedData)

	case ReceivingData, ReceivingExtendedData:
		if !ser.recvBit(ser.data.ReadLevel()) {
			return
		}
		if command.Commit(ser.mem, ser.Tx.Command, ser.Tx.Bits) {
			logger.Logf(ser.perm, "serial", "%s <- %#02x", ser.Tx.Command, ser.Tx.Bits)
		} else if ser.Tx.Command.Resource != command.TestWrite {
			logger.Logf(ser.perm, "serial", "%s <- %#02x (write protected)", ser.Tx.Command, ser.Tx.Bits)
		}
		ser.Completed++
		ser.idle()

	case SendingData:
		if ser.Tx.BitsCt >= 8 {
			ser.Completed++
			ser.idle()
			return
		}
		pins.Drive(ser.data, ser.sendBit())
	}
}

// Rising is called on a rising edge of the clock while the device is
// selected. The only rising edge of interest is the one after the last bit of
// a read, which hands the data line back to the host.
func (ser *Serial) Rising() {
	if ser.State == SendingData && ser.Tx.BitsCt >= 8 {
		ser.Completed++
		ser.idle()
	}
}

// begin the data phase of a decoded command. the state for a write depends on
// whether the command was extended.
func (ser *Serial) begin(c command.Command, writeState State) {
	ser.Tx.Command = c
	ser.resetBits()

	if c.Write {
		ser.State = writeState
		return
	}

	ser.Tx.Data = command.Fetch(ser.mem, c)
	logger.Logf(ser.perm, "serial", "%s -> %#02x", c, ser.Tx.Data)
	ser.data.SetAsOutputReleased()
	ser.State = SendingData
}
