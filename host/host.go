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

// Package host is the host side PRAM library. It talks to the device by bit
// banging the VIA port B lines, in the same way as the original ROM routines.
//
// The library keeps a host copy of the seconds counter, the write-protect
// register and the parameter memory. The host copy of the seconds counter
// is advanced by the one second interrupt and can be compared with the
// device's counter to check that the two agree.
//
// Timing is delegated to a Waiter implementation. The bench package provides
// one that advances simulated time.
package host

import (
	"fmt"
	"strings"
	"sync"

	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/host/via"
	"github.com/macrtc/macrtc/logger"
)

// Waiter is the timing used by the host while talking to the device.
type Waiter interface {
	// a quarter of a serial clock cycle
	WaitQuarterCycle()

	// one second of time
	WaitOneSecond()
}

// Host is the host side of the serial interface.
type Host struct {
	perm logger.Permission

	via  *via.VIA
	wait Waiter

	// the layout of the host copy of memory. the layout should agree with the
	// device but there is no way of asking the device
	mode pram.Mode

	// host copy of the seconds counter
	crit     sync.Mutex
	timeSecs uint32

	// host copy of the write-protect register. the device register cannot be
	// read
	WriteProtect bool

	// host copy of parameter memory. traditional PRAM uses only the group 1
	// and group 2 parts of the array
	PRAM [256]uint8
}

// NewHost is the preferred method of initialisation for the Host type. The
// host view defaults to extended memory.
func NewHost(perm logger.Permission, v *via.VIA, wait Waiter) *Host {
	h := &Host{
		perm: perm,
		via:  v,
		wait: wait,
		mode: pram.Extended,
	}
	v.OnSecond(h.OnSecond)
	return h
}

func (h *Host) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("pram type: %s\n", h.mode))
	s.WriteString(fmt.Sprintf("time: %#08x (%s)\n", h.Time(), FormatMacTime(h.Time())))
	s.WriteString(fmt.Sprintf("write-protect: %v\n", h.WriteProtect))
	s.WriteString(fmt.Sprintf("via: %s\n", h.via))
	return s.String()
}

// SetPramType changes the host view of memory. True selects extended memory,
// false selects the 20 byte traditional memory.
func (h *Host) SetPramType(xpram bool) {
	if xpram {
		h.mode = pram.Extended
	} else {
		h.mode = pram.Legacy
	}
}

// PramType returns true if the host view of memory is extended memory.
func (h *Host) PramType() bool {
	return h.mode.Extended()
}

// Mode returns the host view of memory.
func (h *Host) Mode() pram.Mode {
	return h.mode
}

func (h *Host) waitHalfCycle() {
	h.wait.WaitQuarterCycle()
	h.wait.WaitQuarterCycle()
}

// WaitOneSecond waits for one second using the host's Waiter.
func (h *Host) WaitOneSecond() {
	h.wait.WaitOneSecond()
}
