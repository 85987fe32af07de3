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

// Package pins abstracts the digital lines connecting the device to the host.
//
// All protocol lines are open drain with a pull-up. A line is either an input,
// an output actively driven low or an output that has been released. A
// released output reads high because of the pull-up.
//
// The Line interface is the capability the device firmware needs. The
// simulated Wire in this package implements it for testing and for the
// simulated bench. The gpio package implements it for real hardware.
package pins

// Level of a digital line.
type Level bool

// List of valid Level values.
const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Bit returns the level as 0 or 1.
func (l Level) Bit() uint8 {
	if l {
		return 1
	}
	return 0
}

// LevelFromBit returns Low for a zero value and High for any other value.
func LevelFromBit(v uint8) Level {
	return v != 0
}

// Line is the capability interface for a single digital line.
type Line interface {
	SetAsInput()
	SetAsOutputLow()
	SetAsOutputReleased()
	ReadLevel() Level
}

// Drive sets a line to an output at the requested level. A high level
// releases the line.
func Drive(l Line, v Level) {
	if v {
		l.SetAsOutputReleased()
	} else {
		l.SetAsOutputLow()
	}
}

// Port bundles the lines used by the device.
type Port struct {
	// chip enable. asserted low
	Enable Line

	// serial clock. driven by the host
	Clock Line

	// bidirectional serial data
	Data Line

	// one second square wave output
	OneSecond Line
}
