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

package pram

import (
	"strings"

	"github.com/macrtc/macrtc/curated"
)

// UnknownMode is returned by ParseMode() for an unrecognised mode name.
const UnknownMode = "pram: unknown mode (%s)"

// Mode is the build configuration of the parameter memory. It is fixed for
// the life of the device.
type Mode int

// List of valid Mode values.
const (
	// 20 bytes of traditional parameter memory
	Legacy Mode = iota

	// 256 bytes of extended parameter memory. the traditional bytes are
	// mapped into the extended memory
	Extended
)

func (m Mode) String() string {
	switch m {
	case Legacy:
		return "legacy"
	case Extended:
		return "extended"
	}
	return "unknown"
}

// ParseMode converts a mode name to a Mode value. Matching is case
// insensitive and the names "20" and "xpram" are also accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "20", "trad":
		return Legacy, nil
	case "extended", "256", "xpram":
		return Extended, nil
	}
	return Legacy, curated.Errorf(UnknownMode, s)
}

// Size of the parameter memory in bytes.
func (m Mode) Size() int {
	if m == Extended {
		return 256
	}
	return 20
}

// Group1Base is the memory address of the first byte of the 16 byte group
// reachable with traditional commands.
func (m Mode) Group1Base() uint8 {
	if m == Extended {
		return 0x10
	}
	return 0x00
}

// Group2Base is the memory address of the first byte of the 4 byte group
// reachable with traditional commands.
func (m Mode) Group2Base() uint8 {
	if m == Extended {
		return 0x08
	}
	return 0x10
}

// Extended returns true if the mode recognises extended command framing.
func (m Mode) Extended() bool {
	return m == Extended
}
