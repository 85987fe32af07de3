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

package host

import (
	"github.com/macrtc/macrtc/hardware/command"
	"github.com/macrtc/macrtc/host/via"
)

// SerialBegin takes control of the lines and selects the device.
func (h *Host) SerialBegin() {
	h.via.WriteDirB(via.RtcEnb, via.DirOut)
	h.via.WriteDirB(via.RtcData, via.DirOut)
	h.via.WriteDirB(via.RtcClk, via.DirOut)
	h.via.WriteBufB(via.RtcClk, 0)
	h.via.WriteBufB(via.RtcEnb, 0)
	h.wait.WaitQuarterCycle()
}

// SerialEnd deselects the device.
func (h *Host) SerialEnd() {
	h.via.WriteBufB(via.RtcEnb, 1)
	h.wait.WaitQuarterCycle()
}

// SendByte sends a byte to the device, most significant bit first.
func (h *Host) SendByte(v uint8) {
	h.sendBits(v, 8)
}

// sendBits sends the first n bits of a byte. sending less than 8 bits leaves
// the device mid byte.
func (h *Host) sendBits(v uint8, n int) {
	h.via.WriteDirB(via.RtcData, via.DirOut)
	for i := range n {
		h.via.WriteBufB(via.RtcData, (v>>(7-i))&0x01)
		h.wait.WaitQuarterCycle()
		h.via.WriteBufB(via.RtcClk, 1)
		h.waitHalfCycle()
		h.via.WriteBufB(via.RtcClk, 0)
		h.wait.WaitQuarterCycle()
	}
}

// RecvByte receives a byte from the device, most significant bit first.
func (h *Host) RecvByte() uint8 {
	var v uint8
	h.via.WriteDirB(via.RtcData, via.DirIn)
	for range 8 {
		h.wait.WaitQuarterCycle()
		h.via.WriteBufB(via.RtcClk, 1)
		h.waitHalfCycle()
		h.via.WriteBufB(via.RtcClk, 0)
		h.wait.WaitQuarterCycle()
		v = v<<1 | h.via.ReadBufB(via.RtcData)
	}
	return v
}

// SendReadCmd sends a traditional read command and returns the reply.
func (h *Host) SendReadCmd(cmd uint8) uint8 {
	h.SerialBegin()
	h.SendByte(cmd)
	v := h.RecvByte()
	h.SerialEnd()
	return v
}

// SendWriteCmd sends a traditional write command and its data byte.
func (h *Host) SendWriteCmd(cmd uint8, data uint8) {
	h.SerialBegin()
	h.SendByte(cmd)
	h.SendByte(data)
	h.SerialEnd()
}

// SendReadXCmd sends an extended read command and returns the reply.
func (h *Host) SendReadXCmd(cmd1 uint8, cmd2 uint8) uint8 {
	h.SerialBegin()
	h.SendByte(cmd1)
	h.SendByte(cmd2)
	v := h.RecvByte()
	h.SerialEnd()
	return v
}

// SendWriteXCmd sends an extended write command and its data byte.
func (h *Host) SendWriteXCmd(cmd1 uint8, cmd2 uint8, data uint8) {
	h.SerialBegin()
	h.SendByte(cmd1)
	h.SendByte(cmd2)
	h.SendByte(data)
	h.SerialEnd()
}

// SendPartialCmd selects the device, sends the first n bits of a command
// and deselects the device. Used to check that the device recovers from an
// interrupted transaction.
func (h *Host) SendPartialCmd(cmd uint8, n int) {
	h.SerialBegin()
	h.sendBits(cmd, min(n, 8))
	h.SerialEnd()
}

// TestWrite writes to the test register. There is no way of telling whether
// it succeeded.
func (h *Host) TestWrite() {
	h.SendWriteCmd(command.Encode(0x0c, true), 0x80)
}

// SetWriteProtect sets the write-protect register.
func (h *Host) SetWriteProtect() {
	h.SendWriteCmd(command.Encode(0x0d, true), 0x80)
	h.WriteProtect = true
}

// ClearWriteProtect clears the write-protect register.
func (h *Host) ClearWriteProtect() {
	h.SendWriteCmd(command.Encode(0x0d, true), 0x00)
	h.WriteProtect = false
}
