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

package gpio

import (
	"sync"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/logger"
)

// Line is a single requested GPIO line. It implements the pins.Line
// interface.
//
// The pins.Line interface has no error returns. Errors from the GPIO device
// are logged and the most recent one is kept. See Err().
type Line struct {
	label string
	perm  logger.Permission

	// operations on the requested line
	value     func() (int, error)
	configure func(output bool) error
	close     func() error

	crit   sync.Mutex
	output bool
	err    error
}

func (l *Line) String() string {
	return l.label
}

func (l *Line) fail(err error) {
	err = curated.Errorf(LineError, l.label, err)
	logger.Log(l.perm, "gpio", err)
	l.err = err
}

// setOutput changes the direction of the line. Nothing is done if the line
// is already in that direction, so that lines with edge detection are never
// reconfigured.
func (l *Line) setOutput(output bool) {
	l.crit.Lock()
	defer l.crit.Unlock()
	if l.output == output {
		return
	}
	if err := l.configure(output); err != nil {
		l.fail(err)
		return
	}
	l.output = output
}

// SetAsInput implements the pins.Line interface.
func (l *Line) SetAsInput() {
	l.setOutput(false)
}

// SetAsOutputLow implements the pins.Line interface.
func (l *Line) SetAsOutputLow() {
	l.setOutput(true)
}

// SetAsOutputReleased implements the pins.Line interface. The line is
// configured as an input and is taken high by the pull-up.
func (l *Line) SetAsOutputReleased() {
	l.setOutput(false)
}

// ReadLevel implements the pins.Line interface. A line that cannot be read
// is reported as high, the same as a released line.
func (l *Line) ReadLevel() pins.Level {
	v, err := l.value()
	if err != nil {
		l.crit.Lock()
		l.fail(err)
		l.crit.Unlock()
		return pins.High
	}
	return pins.LevelFromBit(uint8(v))
}

// Output returns true if the line is currently driven low.
func (l *Line) Output() bool {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.output
}

// Err returns the most recent error from the GPIO device.
func (l *Line) Err() error {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.err
}

// Close releases the line.
func (l *Line) Close() error {
	return l.close()
}
