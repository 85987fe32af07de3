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

// Package gpio connects the device to real lines using the Linux GPIO
// character device.
//
// The protocol lines are open drain. A line that is released is configured as
// an input and the external pull-up takes it high. A line that is driven low
// is configured as an output with a value of zero. Edge events on the enable
// and clock lines are passed to the function given to OnChange(), which
// should raise the device's pin change interrupt.
package gpio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/logger"
	"github.com/warthog618/gpiod"
)

// DefaultChip is the GPIO chip used when none is specified.
const DefaultChip = "gpiochip0"

// Sentinal errors.
const (
	BadConfig = "gpio: bad config: %v"
	LineError = "gpio: %s: %v"
)

// Config names the GPIO chip and the offsets of the lines on that chip.
type Config struct {
	Chip      string
	Enable    int
	Clock     int
	Data      int
	OneSecond int
}

// Validate checks that every line has a unique offset.
func (cfg *Config) Validate() error {
	if cfg.Chip == "" {
		cfg.Chip = DefaultChip
	}

	seen := make(map[int]string)
	for _, l := range []struct {
		label  string
		offset int
	}{
		{"enable", cfg.Enable},
		{"clock", cfg.Clock},
		{"data", cfg.Data},
		{"1hz", cfg.OneSecond},
	} {
		if l.offset < 0 {
			return curated.Errorf(BadConfig, fmt.Sprintf("%s line has no offset", l.label))
		}
		if other, ok := seen[l.offset]; ok {
			return curated.Errorf(BadConfig, fmt.Sprintf("%s and %s lines share offset %d", other, l.label, l.offset))
		}
		seen[l.offset] = l.label
	}

	return nil
}

// Bank is the set of lines requested from a GPIO chip.
type Bank struct {
	perm logger.Permission
	chip *gpiod.Chip

	Enable    *Line
	Clock     *Line
	Data      *Line
	OneSecond *Line

	crit     sync.Mutex
	onChange func()
}

// Open the GPIO chip and request the lines named in the config. The bank
// should be closed when it is no longer required.
func Open(perm logger.Permission, cfg Config) (_ *Bank, rerr error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := gpiod.NewChip(cfg.Chip, gpiod.WithConsumer("macrtc"))
	if err != nil {
		return nil, curated.Errorf(LineError, cfg.Chip, err)
	}

	b := &Bank{
		perm: perm,
		chip: c,
	}
	defer func() {
		if rerr != nil {
			_ = b.Close()
		}
	}()

	b.Enable, err = b.request("enable", cfg.Enable, gpiod.AsInput, gpiod.WithBothEdges, gpiod.WithEventHandler(b.event))
	if err != nil {
		return nil, err
	}
	b.Clock, err = b.request("clock", cfg.Clock, gpiod.AsInput, gpiod.WithBothEdges, gpiod.WithEventHandler(b.event))
	if err != nil {
		return nil, err
	}
	b.Data, err = b.request("data", cfg.Data, gpiod.AsInput)
	if err != nil {
		return nil, err
	}
	b.OneSecond, err = b.request("1hz", cfg.OneSecond, gpiod.AsOutput(0))
	if err != nil {
		return nil, err
	}
	b.OneSecond.output = true

	logger.Logf(perm, "gpio", "opened %s", b)

	return b, nil
}

func (b *Bank) request(label string, offset int, opts ...gpiod.LineReqOption) (*Line, error) {
	l, err := b.chip.RequestLine(offset, opts...)
	if err != nil {
		return nil, curated.Errorf(LineError, label, err)
	}

	return &Line{
		label: fmt.Sprintf("%s (%d)", label, offset),
		perm:  b.perm,
		value: l.Value,
		close: l.Close,
		configure: func(output bool) error {
			if output {
				return l.Reconfigure(gpiod.AsOutput(0))
			}
			return l.Reconfigure(gpiod.AsInput)
		},
	}, nil
}

// event handler for the enable and clock lines.
func (b *Bank) event(_ gpiod.LineEvent) {
	b.crit.Lock()
	f := b.onChange
	b.crit.Unlock()
	if f != nil {
		f()
	}
}

// OnChange sets the function called on every edge of the enable and clock
// lines. Events that arrive before a function is set are dropped.
func (b *Bank) OnChange(f func()) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.onChange = f
}

// Port returns the lines as a pins.Port.
func (b *Bank) Port() pins.Port {
	return pins.Port{
		Enable:    b.Enable,
		Clock:     b.Clock,
		Data:      b.Data,
		OneSecond: b.OneSecond,
	}
}

func (b *Bank) String() string {
	s := strings.Builder{}
	s.WriteString(b.chip.Name)
	for _, l := range []*Line{b.Enable, b.Clock, b.Data, b.OneSecond} {
		if l != nil {
			s.WriteString(fmt.Sprintf(", %s", l.label))
		}
	}
	return s.String()
}

// Close releases all lines and the chip.
func (b *Bank) Close() error {
	var errs []string
	for _, l := range []*Line{b.Enable, b.Clock, b.Data, b.OneSecond} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := b.chip.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return curated.Errorf(LineError, b.chip.Name, strings.Join(errs, "; "))
	}
	return nil
}
