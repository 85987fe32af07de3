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

package hardware_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/hardware"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/hardware/preferences"
	"github.com/macrtc/macrtc/hardware/serial"
	"github.com/macrtc/macrtc/test"
)

// rig connects a chip to simulated wires. the host side of the wires is
// driven directly by the test
type rig struct {
	chip *hardware.Chip

	enable, clock, data, onesec *pins.Wire
	hEnable, hClock, hData      *pins.Endpoint
}

func newRig(t *testing.T, mode string, crystal string) *rig {
	t.Helper()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Mode.Set(mode))
	test.DemandSuccess(t, p.Crystal.Set(crystal))
	test.DemandSuccess(t, p.Log.Set(false))

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	r := &rig{
		enable: pins.NewWire("enable"),
		clock:  pins.NewWire("clock"),
		data:   pins.NewWire("data"),
		onesec: pins.NewWire("1hz"),
	}
	r.hEnable = r.enable.Endpoint("host")
	r.hClock = r.clock.Endpoint("host")
	r.hData = r.data.Endpoint("host")

	r.chip, err = hardware.NewChip(env, pins.Port{
		Enable:    r.enable.Endpoint("device"),
		Clock:     r.clock.Endpoint("device"),
		Data:      r.data.Endpoint("device"),
		OneSecond: r.onesec.Endpoint("device"),
	})
	test.DemandSuccess(t, err)

	r.enable.Watch(func(_ pins.Level) { r.chip.PinChange() })
	r.clock.Watch(func(_ pins.Level) { r.chip.PinChange() })

	return r
}

func (r *rig) set(e *pins.Endpoint, v pins.Level) {
	pins.Drive(e, v)
	r.chip.Service()
}

func (r *rig) begin() {
	r.set(r.hClock, pins.Low)
	r.set(r.hEnable, pins.Low)
}

func (r *rig) end() {
	r.set(r.hEnable, pins.High)
}

func (r *rig) send(v uint8) {
	for i := 7; i >= 0; i-- {
		r.set(r.hData, pins.LevelFromBit(v>>i&1))
		r.set(r.hClock, pins.High)
		r.set(r.hClock, pins.Low)
	}
	r.hData.SetAsInput()
}

func (r *rig) recv() uint8 {
	var v uint8
	for range 8 {
		r.set(r.hClock, pins.High)
		r.set(r.hClock, pins.Low)
		v = v<<1 | r.data.Level().Bit()
	}
	return v
}

func (r *rig) write(cmd uint8, v uint8) {
	r.begin()
	r.send(cmd)
	r.send(v)
	r.end()
}

func (r *rig) read(cmd uint8) uint8 {
	r.begin()
	r.send(cmd)
	v := r.recv()
	r.end()
	return v
}

func TestSetup(t *testing.T) {
	r := newRig(t, "extended", "32K")
	test.ExpectEquality(t, r.onesec.Level(), pins.Low)
	test.ExpectEquality(t, r.data.Level(), pins.High)
	test.ExpectEquality(t, r.chip.Serial.State, serial.Idle)
	test.ExpectEquality(t, r.chip.Seconds(), pram.DefaultSeconds)
	test.ExpectEquality(t, len(r.chip.Mem.Data), 256)
}

func TestRoundTrip(t *testing.T) {
	r := newRig(t, "extended", "32K")
	r.write(0x40, 0xab)
	test.ExpectEquality(t, r.read(0xc0), uint8(0xab))
	test.ExpectEquality(t, r.chip.Mem.Peek(0x10), uint8(0xab))

	r = newRig(t, "legacy", "32K")
	r.write(0x40, 0xab)
	test.ExpectEquality(t, r.read(0xc0), uint8(0xab))
	test.ExpectEquality(t, r.chip.Mem.Peek(0x00), uint8(0xab))
}

func TestSecondsReadWrite(t *testing.T) {
	r := newRig(t, "legacy", "32K")
	r.write(0x34, 0x00)
	r.write(0x00, 0xd5)
	r.write(0x04, 0x80)
	r.write(0x08, 0x3b)
	r.write(0x0c, 0x98)
	test.ExpectEquality(t, r.chip.Seconds(), uint32(0x983b80d5))

	var v uint32
	for i, cmd := range []uint8{0x80, 0x84, 0x88, 0x8c} {
		v |= uint32(r.read(cmd)) << (i * 8)
	}
	test.ExpectEquality(t, v, uint32(0x983b80d5))

	// aliases of the seconds registers
	test.ExpectEquality(t, r.read(0x9c), uint8(0x98))
}

func TestWriteProtect(t *testing.T) {
	r := newRig(t, "extended", "32K")
	r.write(0x40, 0x11)
	r.write(0x34, 0x80)
	r.write(0x40, 0x22)
	r.write(0x00, 0x00)
	test.ExpectEquality(t, r.read(0xc0), uint8(0x11))
	test.ExpectEquality(t, r.chip.Seconds(), pram.DefaultSeconds)

	r.write(0x34, 0x00)
	r.write(0x40, 0x22)
	test.ExpectEquality(t, r.read(0xc0), uint8(0x22))
}

func TestAbortedTransaction(t *testing.T) {
	r := newRig(t, "extended", "32K")
	r.begin()
	r.send(0x40)
	for range 6 {
		r.set(r.hData, pins.High)
		r.set(r.hClock, pins.High)
		r.set(r.hClock, pins.Low)
	}
	r.hData.SetAsInput()
	r.end()

	test.ExpectEquality(t, r.chip.Serial.State, serial.Idle)
	test.ExpectEquality(t, r.chip.Mem.Peek(0x10), uint8(0))

	r.write(0x40, 0x5a)
	test.ExpectEquality(t, r.read(0xc0), uint8(0x5a))
}

func TestClockEdgesWhileDeselected(t *testing.T) {
	r := newRig(t, "extended", "32K")
	r.set(r.hClock, pins.Low)
	for range 16 {
		r.set(r.hData, pins.Low)
		r.set(r.hClock, pins.High)
		r.set(r.hClock, pins.Low)
	}
	r.hData.SetAsInput()
	test.ExpectEquality(t, r.chip.Serial.State, serial.Idle)
	test.ExpectEquality(t, r.chip.Seconds(), pram.DefaultSeconds)
}

func TestQuickReselect(t *testing.T) {
	r := newRig(t, "extended", "32K")
	r.begin()

	// deselect, reselect and the first bit of the command all happen before
	// the foreground loop runs
	pins.Drive(r.hEnable, pins.High)
	pins.Drive(r.hEnable, pins.Low)
	pins.Drive(r.hData, pins.Low)
	pins.Drive(r.hClock, pins.High)
	pins.Drive(r.hClock, pins.Low)
	r.chip.Service()
	test.ExpectEquality(t, r.chip.Serial.State, serial.ReceivingCommand)

	// the rest of write command 0x40
	for i := 6; i >= 0; i-- {
		r.set(r.hData, pins.LevelFromBit(0x40>>i&1))
		r.set(r.hClock, pins.High)
		r.set(r.hClock, pins.Low)
	}
	r.hData.SetAsInput()
	r.send(0x5a)
	r.end()

	test.ExpectEquality(t, r.chip.Mem.Peek(0x10), uint8(0x5a))
	test.ExpectEquality(t, r.read(0xc0), uint8(0x5a))
}

func TestReadReleasesDataLine(t *testing.T) {
	r := newRig(t, "extended", "32K")
	r.write(0x40, 0x00)
	r.begin()
	r.send(0xc0)
	test.ExpectEquality(t, r.recv(), uint8(0x00))
	test.ExpectEquality(t, r.data.Level(), pins.Low)

	// rising edge after the last bit hands the line back
	r.set(r.hClock, pins.High)
	test.ExpectEquality(t, r.data.Level(), pins.High)
	test.ExpectEquality(t, r.chip.Serial.State, serial.Idle)
	r.end()
}

func TestTiming(t *testing.T) {
	for _, c := range []string{"32K", "8M", "2M"} {
		r := newRig(t, "extended", c)
		start := r.chip.Seconds()
		r.chip.Elapse(10000 * time.Second)
		test.ExpectApproximate(t, int64(r.chip.Seconds()-start), 10000, 1, c)
	}
}

func TestElapseCarry(t *testing.T) {
	r := newRig(t, "extended", "8M")
	start := r.chip.Seconds()

	// 7812.5 ticks per second. half ticks must not be lost
	for range 20000 {
		r.chip.Elapse(500 * time.Microsecond)
	}
	test.ExpectEquality(t, r.chip.Seconds()-start, uint32(10))
}

func TestRun(t *testing.T) {
	r := newRig(t, "extended", "32K")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- r.chip.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		test.ExpectSuccess(t, err)
	case <-time.After(time.Second):
		t.Fatalf("foreground loop did not end")
	}
}

func TestStatus(t *testing.T) {
	r := newRig(t, "legacy", "2M")
	s := r.chip.String()
	test.ExpectInequality(t, s, "")
}
