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

package prefs

import (
	"strings"

	"github.com/macrtc/macrtc/curated"
)

// ParseCommandLine splits a preferences string given on the command line into
// key/value pairs. The format is:
//
//	key::value; key::value
//
// An empty string results in an empty map.
func ParseCommandLine(s string) (map[string]string, error) {
	vals := make(map[string]string)
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		k, v, ok := strings.Cut(entry, "::")
		if !ok {
			return nil, curated.Errorf("prefs: malformed command line entry (%s)", entry)
		}
		vals[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return vals, nil
}

// ApplyCommandLine sets preferences from a command line string. The values
// are not saved to disk unless Save() is called afterwards.
func (dsk *Disk) ApplyCommandLine(s string) error {
	vals, err := ParseCommandLine(s)
	if err != nil {
		return err
	}
	for k, v := range vals {
		if err := dsk.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
