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

package preferences

import (
	"time"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/clocks"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/prefs"
	"github.com/macrtc/macrtc/resources"
)

// DefaultPrefsFile is the name of the preferences file in the resources
// directory.
const DefaultPrefsFile = "preferences"

// Preferences defines and collates the preference values used by the device
// and the simulated bench.
//
// The mode and crystal are build time configuration of the device. They are
// read once, when the device is created. Changing them afterwards has no
// effect on an existing device.
type Preferences struct {
	dsk *prefs.Disk

	// storage mode of the device. "legacy" or "extended"
	Mode prefs.String

	// crystal and prescaler driving the timer. one of the names in
	// clocks.Crystals
	Crystal prefs.String

	// value of the seconds counter at boot
	Seconds prefs.Int

	// length of the simulated host's quarter clock cycle in microseconds
	Quarter prefs.Int

	// allow the device to make log entries
	Log prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. An empty path means the default prefs file in the
// resources directory.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}

	var err error
	if path == "" {
		path, err = resources.JoinPath(DefaultPrefsFile)
		if err != nil {
			return nil, curated.Errorf("preferences: %v", err)
		}
	}

	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	p.Mode.SetHookPre(func(v prefs.Value) error {
		_, err := pram.ParseMode(v.(string))
		return err
	})
	p.Crystal.SetHookPre(func(v prefs.Value) error {
		_, err := clocks.Lookup(v.(string))
		return err
	})
	p.Quarter.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return curated.Errorf("preferences: quarter cycle must be positive")
		}
		return nil
	})

	if err := p.dsk.Add("rtc.mode", &p.Mode); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	if err := p.dsk.Add("rtc.crystal", &p.Crystal); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	if err := p.dsk.Add("rtc.seconds", &p.Seconds); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	if err := p.dsk.Add("rtc.log", &p.Log); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	if err := p.dsk.Add("bench.quarter", &p.Quarter); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	if err := p.dsk.Load(); err != nil {
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, curated.Errorf("preferences: %v", err)
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() error {
	for _, err := range []error{
		p.Mode.Set(pram.Extended.String()),
		p.Crystal.Set(clocks.Crystals[0].Name),
		p.Seconds.Set(pram.DefaultSeconds),
		p.Quarter.Set(500),
		p.Log.Set(true),
	} {
		if err != nil {
			return curated.Errorf("preferences: %v", err)
		}
	}
	return nil
}

// StorageMode returns the Mode preference as a pram.Mode value.
func (p *Preferences) StorageMode() pram.Mode {
	m, _ := pram.ParseMode(p.Mode.String())
	return m
}

// Clock returns the Crystal preference as a clocks.Crystal value.
func (p *Preferences) Clock() clocks.Crystal {
	c, err := clocks.Lookup(p.Crystal.String())
	if err != nil {
		return clocks.Crystals[0]
	}
	return c
}

// BootSeconds returns the Seconds preference as a uint32.
func (p *Preferences) BootSeconds() uint32 {
	return uint32(p.Seconds.Get().(int))
}

// QuarterCycle returns the Quarter preference as a duration.
func (p *Preferences) QuarterCycle() time.Duration {
	return time.Duration(p.Quarter.Get().(int)) * time.Microsecond
}

// ApplyCommandLine sets preferences from a command line string of the form
// "key::value; key::value".
func (p *Preferences) ApplyCommandLine(s string) error {
	return p.dsk.ApplyCommandLine(s)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
