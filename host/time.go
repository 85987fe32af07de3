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
	"time"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/command"
)

// MacUnixDelta is the number of seconds between the Macintosh epoch (1904)
// and the Unix epoch (1970).
const MacUnixDelta = 60 * 60 * 24 * ((365*4+1)*16 + (365*2 + 1))

// TimeFormat is the layout of string time. ISO 8601 without the T.
const TimeFormat = "2006-01-02 15:04:05"

// Sentinal errors.
const (
	InconsistentTime = "host: inconsistent time read after %d tries"
	BadTimeString    = "host: bad time string: %v"
)

// the number of times the time is read before giving up.
const dumpTimeRetries = 4

// MacToTime converts Macintosh seconds into a time.Time. The Macintosh
// counter has no time zone so the result is in UTC.
func MacToTime(secs uint32) time.Time {
	return time.Unix(int64(secs)-MacUnixDelta, 0).UTC()
}

// TimeToMac converts a time.Time into Macintosh seconds. The wall clock in
// the time's location is used.
func TimeToMac(t time.Time) uint32 {
	_, offset := t.Zone()
	return uint32(t.Unix() + int64(offset) + MacUnixDelta)
}

// FormatMacTime converts Macintosh seconds into a string.
func FormatMacTime(secs uint32) string {
	return MacToTime(secs).Format(TimeFormat)
}

// ParseMacTime converts a string into Macintosh seconds.
func ParseMacTime(s string) (uint32, error) {
	t, err := time.ParseInLocation(TimeFormat, s, time.UTC)
	if err != nil {
		return 0, curated.Errorf(BadTimeString, err)
	}
	return TimeToMac(t), nil
}

// readTime reads the four seconds bytes using one of the two register
// aliases. base is 0 or 4.
func (h *Host) readTime(base uint8) uint32 {
	var v uint32
	for i := range uint8(4) {
		v |= uint32(h.SendReadCmd(command.Encode(base+i, false))) << (i * 8)
	}
	return v
}

// DumpTime copies the time from the device to the host. The time is read
// twice, once through each register alias, and the reads must agree. A one
// second interrupt during the reads causes a retry, even if the reads agree,
// because the increment may have landed after byte 0 of both reads.
func (h *Host) DumpTime() error {
	for range dumpTimeRetries {
		irq := h.via.IRQCount()
		a := h.readTime(0)
		b := h.readTime(4)
		if a == b && h.via.IRQCount() == irq {
			h.crit.Lock()
			h.timeSecs = a
			h.crit.Unlock()
			return nil
		}
	}
	return curated.Errorf(InconsistentTime, dumpTimeRetries)
}

// LoadTime clears write-protect and copies the time from the host to the
// device.
func (h *Host) LoadTime() {
	h.ClearWriteProtect()
	t := h.Time()
	for i := range uint8(4) {
		h.SendWriteCmd(command.Encode(i, true), uint8(t>>(i*8)))
	}
}

// SetTime sets the host time and copies it to the device. Also clears
// write-protect.
func (h *Host) SetTime(secs uint32) {
	h.crit.Lock()
	h.timeSecs = secs
	h.crit.Unlock()
	h.LoadTime()
}

// SetStrTime is like SetTime but the time is given as a string. Nothing is
// changed if the string is invalid.
func (h *Host) SetStrTime(s string) error {
	secs, err := ParseMacTime(s)
	if err != nil {
		return err
	}
	h.SetTime(secs)
	return nil
}

// SetCurTime sets the device to the current local time. Also clears
// write-protect.
func (h *Host) SetCurTime() {
	h.SetTime(TimeToMac(time.Now()))
}

// Time returns the host copy of the time.
func (h *Host) Time() uint32 {
	h.crit.Lock()
	defer h.crit.Unlock()
	return h.timeSecs
}

// StrTime returns the host copy of the time as a string.
func (h *Host) StrTime() string {
	return FormatMacTime(h.Time())
}

// Interrupts returns the number of one second interrupts seen by the host.
func (h *Host) Interrupts() uint64 {
	return h.via.IRQCount()
}

// OnSecond is the one second interrupt handler. It advances the host copy of
// the time.
func (h *Host) OnSecond() {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.timeSecs++
}
