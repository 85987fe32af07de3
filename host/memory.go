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
	"github.com/macrtc/macrtc/logger"
)

// GenCmd returns the traditional command byte for a host address in the
// range 0x00 to 0x1f.
func GenCmd(addr uint8, write bool) uint8 {
	return command.Encode(addr, write)
}

// GenXCmd returns the two extended command bytes for an address.
func GenXCmd(addr uint8, write bool) (uint8, uint8) {
	return command.EncodeExtended(addr, write)
}

// GenSendReadCmd reads a traditional address.
func (h *Host) GenSendReadCmd(addr uint8) uint8 {
	return h.SendReadCmd(GenCmd(addr, false))
}

// GenSendWriteCmd writes to a traditional address.
func (h *Host) GenSendWriteCmd(addr uint8, data uint8) {
	h.SendWriteCmd(GenCmd(addr, true), data)
}

// GenSendReadXCmd reads an extended address.
func (h *Host) GenSendReadXCmd(addr uint8) uint8 {
	c1, c2 := GenXCmd(addr, false)
	return h.SendReadXCmd(c1, c2)
}

// GenSendWriteXCmd writes to an extended address.
func (h *Host) GenSendWriteXCmd(addr uint8, data uint8) {
	c1, c2 := GenXCmd(addr, true)
	h.SendWriteXCmd(c1, c2, data)
}

// DumpAllTradMem copies the 20 bytes of traditional memory from the device to
// the host.
func (h *Host) DumpAllTradMem() {
	g1 := h.mode.Group1Base()
	g2 := h.mode.Group2Base()
	for i := range uint8(4) {
		h.PRAM[g2+i] = h.GenSendReadCmd(0x08 + i)
	}
	for i := range uint8(16) {
		h.PRAM[g1+i] = h.GenSendReadCmd(0x10 + i)
	}
}

// LoadAllTradMem clears write-protect and copies the 20 bytes of traditional
// memory from the host to the device.
func (h *Host) LoadAllTradMem() {
	h.ClearWriteProtect()
	g1 := h.mode.Group1Base()
	g2 := h.mode.Group2Base()
	for i := range uint8(4) {
		h.GenSendWriteCmd(0x08+i, h.PRAM[g2+i])
	}
	for i := range uint8(16) {
		h.GenSendWriteCmd(0x10+i, h.PRAM[g1+i])
	}
}

// DumpAllXMem copies all extended memory from the device to the host.
func (h *Host) DumpAllXMem() {
	for i := range 256 {
		h.PRAM[i] = h.GenSendReadXCmd(uint8(i))
	}
}

// LoadAllXMem clears write-protect and copies all extended memory from the
// host to the device.
func (h *Host) LoadAllXMem() {
	h.ClearWriteProtect()
	for i := range 256 {
		h.GenSendWriteXCmd(uint8(i), h.PRAM[i])
	}
}

// TradPramCmd performs a traditional command on the host copy of memory. Valid
// writes are also sent to the device.
//
// Reads return the value from the host copy, or zero for commands that
// cannot be read. Writes return 1 if they were accepted and 0 otherwise.
// While write-protect is set only the write-protect register accepts writes.
func (h *Host) TradPramCmd(cmd uint8, data uint8) uint8 {
	c := command.Decode(cmd, h.mode)

	if c.Write && h.WriteProtect && c.Resource != command.WriteProtect {
		return 0
	}

	switch c.Resource {
	case command.SecondsByte:
		shift := c.Index * 8
		if !c.Write {
			return uint8(h.Time() >> shift)
		}
		h.crit.Lock()
		h.timeSecs &^= 0xff << shift
		h.timeSecs |= uint32(data) << shift
		h.crit.Unlock()

	case command.LegacyMemory:
		if !c.Write {
			return h.PRAM[c.Index]
		}
		h.PRAM[c.Index] = data

	case command.TestWrite:

	case command.WriteProtect:
		h.WriteProtect = data&0x80 == 0x80

	default:
		logger.Logf(h.perm, "host", "%#02x is not a traditional command", cmd)
		return 0
	}

	h.SendWriteCmd(cmd, data)
	return 1
}

// WriteXMem writes to the host copy of extended memory and to the device.
func (h *Host) WriteXMem(addr uint8, data uint8) {
	h.GenSendWriteXCmd(addr, data)
	h.PRAM[addr] = data
}

// ReadXMem reads the host copy of extended memory.
func (h *Host) ReadXMem(addr uint8) uint8 {
	return h.PRAM[addr]
}

// TradMem returns the 20 bytes of traditional memory from the host copy.
// Group 1 comes first, followed by group 2.
func (h *Host) TradMem() []uint8 {
	g1 := h.mode.Group1Base()
	g2 := h.mode.Group2Base()
	m := make([]uint8, 0, 20)
	m = append(m, h.PRAM[g1:g1+16]...)
	m = append(m, h.PRAM[g2:g2+4]...)
	return m
}

// SetTradMem replaces the host copy of traditional memory. The layout is the
// same as for TradMem(). The device is not changed.
func (h *Host) SetTradMem(m []uint8) {
	g1 := int(h.mode.Group1Base())
	g2 := int(h.mode.Group2Base())
	copy(h.PRAM[g1:g1+16], m)
	if len(m) > 16 {
		copy(h.PRAM[g2:g2+4], m[16:])
	}
}
