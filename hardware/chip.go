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

package hardware

import (
	"fmt"
	"strings"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/hardware/clocks"
	"github.com/macrtc/macrtc/hardware/edge"
	"github.com/macrtc/macrtc/hardware/interrupts"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/hardware/serial"
	"github.com/macrtc/macrtc/hardware/timer"
	"github.com/macrtc/macrtc/logger"
)

// Chip is the main container for the components of the device.
type Chip struct {
	env *environment.Environment

	Port    pins.Port
	Crystal clocks.Crystal

	IC          *interrupts.Controller
	Timer       *timer.Timer
	Accumulator *timer.Accumulator
	Edges       *edge.Detector
	Serial      *serial.Serial
	Mem         *pram.Memory

	// timer ticks per second as a fraction and the remainder carried between
	// calls to Elapse()
	tickNum   uint64
	tickDen   uint64
	tickCarry uint64
}

// NewChip creates a new device connected to the lines in port. The build time
// configuration is taken from the environment's preferences.
//
// This is the setup phase of the firmware. All protocol lines are set to
// input, the one second line is set to output low, storage is initialised and
// the interrupt handlers are attached.
func NewChip(env *environment.Environment, port pins.Port) (*Chip, error) {
	if port.Enable == nil || port.Clock == nil || port.Data == nil {
		return nil, curated.Errorf("hardware: port is missing protocol lines")
	}

	chip := &Chip{
		env:     env,
		Port:    port,
		Crystal: env.Prefs.Clock(),
		IC:      interrupts.NewController(),
	}

	chip.Port.Enable.SetAsInput()
	chip.Port.Clock.SetAsInput()
	chip.Port.Data.SetAsInput()

	clk := pram.NewClock(chip.IC, env.Prefs.BootSeconds())
	chip.Mem = pram.NewMemory(env.Prefs.StorageMode(), clk)

	chip.Timer = timer.NewTimer(func() {
		chip.IC.Raise(interrupts.TimerOverflow)
	})

	var err error
	chip.Accumulator, err = timer.NewAccumulator(chip.Crystal, chip.Timer, port.OneSecond, clk.Increment)
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}
	chip.tickNum, chip.tickDen = chip.Crystal.TicksPerSecond()

	chip.Edges = edge.NewDetector(port.Enable.ReadLevel(), port.Clock.ReadLevel())
	chip.Serial = serial.NewSerial(env, port.Data, chip.Mem)

	chip.IC.Attach(interrupts.PinChange, chip.pinChange)
	chip.IC.Attach(interrupts.TimerOverflow, chip.Accumulator.Overflow)

	logger.Logf(env, "hardware", "%s device with %s crystal", chip.Mem.Mode, chip.Crystal)

	return chip, nil
}

func (chip *Chip) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("mode: %s (%d bytes)\n", chip.Mem.Mode, len(chip.Mem.Data)))
	s.WriteString(fmt.Sprintf("crystal: %s\n", chip.Crystal))
	s.WriteString(fmt.Sprintf("seconds: %#08x\n", chip.Mem.Clock.Seconds()))
	s.WriteString(fmt.Sprintf("write-protect: %v\n", chip.Mem.WriteProtect))
	s.WriteString(fmt.Sprintf("serial: %s\n", chip.Serial))
	s.WriteString(fmt.Sprintf("transactions: %d completed, %d aborted, %d invalid\n",
		chip.Serial.Completed, chip.Serial.Aborted, chip.Serial.Invalid))
	s.WriteString(fmt.Sprintf("interrupts: %s\n", chip.IC))
	s.WriteString(fmt.Sprintf("timer: %s\n", chip.Timer))
	s.WriteString(fmt.Sprintf("accumulator: %s\n", chip.Accumulator))
	return s.String()
}

// the pin change interrupt handler.
func (chip *Chip) pinChange() {
	chip.Edges.Sample(chip.Port.Enable.ReadLevel(), chip.Port.Clock.ReadLevel())
}

// PinChange raises the pin change interrupt. It should be called whenever the
// level of the enable or clock line changes.
func (chip *Chip) PinChange() {
	chip.IC.Raise(interrupts.PinChange)
}

// Tick advances the timer by a number of prescaled ticks. Timer overflow
// interrupts are raised as required.
func (chip *Chip) Tick(ticks uint64) {
	chip.Timer.Advance(ticks)
}

// Seconds returns the current value of the seconds counter.
func (chip *Chip) Seconds() uint32 {
	return chip.Mem.Clock.Seconds()
}
