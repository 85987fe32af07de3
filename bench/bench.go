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

// Package bench is a simulated test bench. The device and the host are
// connected by simulated wires and time is simulated.
//
// Time only passes when the host waits. Every wait advances the device's
// timer by the duration of the wait and then runs the device's foreground
// loop until it has nothing left to do. Because of this the bench is
// entirely deterministic: the same sequence of host operations always
// produces the same result, whatever the speed of the machine running it.
package bench

import (
	"fmt"
	"strings"
	"time"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/hardware"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/host"
	"github.com/macrtc/macrtc/host/via"
	"github.com/macrtc/macrtc/logger"
	"github.com/macrtc/macrtc/wavwriter"
)

// Bench is the test bench. It implements the host.Waiter interface.
type Bench struct {
	env *environment.Environment

	Chip *hardware.Chip
	VIA  *via.VIA
	Host *host.Host

	Enable    *pins.Wire
	Clock     *pins.Wire
	Data      *pins.Wire
	OneSecond *pins.Wire

	// length of a quarter cycle of the serial clock
	quarter time.Duration

	// amount of simulated time that has passed
	Elapsed time.Duration

	capture *wavwriter.WavWriter
}

// NewBench is the preferred method of initialisation for the Bench type.
func NewBench(env *environment.Environment) (*Bench, error) {
	b := &Bench{
		env:       env,
		Enable:    pins.NewWire("enable"),
		Clock:     pins.NewWire("clock"),
		Data:      pins.NewWire("data"),
		OneSecond: pins.NewWire("1hz"),
		quarter:   env.Prefs.QuarterCycle(),
	}

	var err error
	b.Chip, err = hardware.NewChip(env, pins.Port{
		Enable:    b.Enable.Endpoint("device"),
		Clock:     b.Clock.Endpoint("device"),
		Data:      b.Data.Endpoint("device"),
		OneSecond: b.OneSecond.Endpoint("device"),
	})
	if err != nil {
		return nil, curated.Errorf("bench: %v", err)
	}

	b.VIA = via.NewVIA(b.Enable.Endpoint("host"), b.Clock.Endpoint("host"), b.Data.Endpoint("host"))
	b.Host = host.NewHost(env, b.VIA, b)
	b.Host.SetPramType(b.Chip.Mem.Mode.Extended())

	// pin change interrupts for the device
	b.Enable.Watch(func(_ pins.Level) { b.Chip.PinChange() })
	b.Clock.Watch(func(_ pins.Level) { b.Chip.PinChange() })

	// one second interrupt for the host
	b.OneSecond.Watch(b.VIA.OneSecond)

	logger.Logf(env, "bench", "quarter cycle is %s", b.quarter)

	return b, nil
}

// Env returns the environment the bench was created with.
func (b *Bench) Env() *environment.Environment {
	return b.env
}

func (b *Bench) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("elapsed: %s\n", b.Elapsed))
	s.WriteString(fmt.Sprintf("quarter cycle: %s\n", b.quarter))
	if b.capture != nil {
		s.WriteString(fmt.Sprintf("capturing: %d samples\n", b.capture.Len()))
	}
	return s.String()
}

// Lines returns the current level of every line and the recent history of
// the lines as seen by the device.
func (b *Bench) Lines() string {
	s := strings.Builder{}
	for _, w := range []*pins.Wire{b.Enable, b.Clock, b.Data, b.OneSecond} {
		s.WriteString(w.String())
		s.WriteString("\n")
	}
	s.WriteString(fmt.Sprintf("%-8s %s\n", b.Chip.Edges.Enable.Label, b.Chip.Edges.Enable.Waveform()))
	s.WriteString(fmt.Sprintf("%-8s %s\n", b.Chip.Edges.Clock.Label, b.Chip.Edges.Clock.Waveform()))
	return s.String()
}

// advance simulated time and let the device catch up.
func (b *Bench) advance(d time.Duration) {
	b.Chip.Elapse(d)
	b.Chip.Service()
	b.Elapsed += d

	if b.capture != nil {
		b.capture.Sample(b.Enable.Level(), b.Clock.Level(), b.Data.Level(), b.OneSecond.Level())
	}
}

// WaitQuarterCycle implements the host.Waiter interface.
func (b *Bench) WaitQuarterCycle() {
	b.advance(b.quarter)
}

// WaitOneSecond implements the host.Waiter interface.
func (b *Bench) WaitOneSecond() {
	b.Wait(time.Second)
}

// Wait advances simulated time, one quarter cycle at a time.
func (b *Bench) Wait(d time.Duration) {
	for d >= b.quarter {
		b.advance(b.quarter)
		d -= b.quarter
	}
	if d > 0 {
		b.advance(d)
	}
}

// StartCapture begins recording the lines to a WAV file. One sample is taken
// every quarter cycle.
func (b *Bench) StartCapture(filename string) error {
	if b.capture != nil {
		return curated.Errorf("bench: %v", "capture already in progress")
	}

	var err error
	b.capture, err = wavwriter.New(filename, b.quarter, "enable", "clock", "data", "1hz")
	if err != nil {
		return curated.Errorf("bench: %v", err)
	}

	logger.Logf(b.env, "bench", "capturing lines to %s", filename)
	return nil
}

// StopCapture ends the recording and writes it to disk.
func (b *Bench) StopCapture() error {
	if b.capture == nil {
		return curated.Errorf("bench: %v", "no capture in progress")
	}
	err := b.capture.EndMixing()
	b.capture = nil
	if err != nil {
		return curated.Errorf("bench: %v", err)
	}
	return nil
}

// Capturing returns true if the lines are being recorded.
func (b *Bench) Capturing() bool {
	return b.capture != nil
}
