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

package environment

import (
	"github.com/macrtc/macrtc/hardware/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the emulation the user interacts with.
const MainEmulation = Label("")

// Environment is used to provide context for a device. Particularly useful
// when more than one device exists, for example a device under test and a
// reference device.
type Environment struct {
	Label Label

	// the device preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type.
//
// The prefs argument can be nil, in which case a new Preferences instance is
// created from the default prefs file. Providing a non-nil value allows the
// preferences of more than one device to be shared.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	var err error
	if prefs == nil {
		prefs, err = preferences.NewPreferences("")
		if err != nil {
			return nil, err
		}
	}
	env.Prefs = prefs

	return env, nil
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Prefs.Log.Get().(bool)
}

// IsMainEmulation returns true if the environment is intended for the main
// emulation in the system.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}
