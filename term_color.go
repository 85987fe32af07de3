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

//go:build !windows

package main

import (
	"github.com/macrtc/macrtc/terminal"
	"github.com/macrtc/macrtc/terminal/colorterm"
	"github.com/macrtc/macrtc/terminal/plainterm"
)

// newColorTerminal returns the colour terminal if stdin and stdout are a real
// terminal. Otherwise nil is returned.
func newColorTerminal() terminal.Terminal {
	if !plainterm.NewPlainTerminal(nil, nil).IsRealTerminal() {
		return nil
	}
	return &colorterm.ColorTerminal{}
}
