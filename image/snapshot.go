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

package image

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/host"
	"gopkg.in/yaml.v3"
)

// the number of bytes in each row of a snapshot.
const rowLen = 16

// Snapshot is the state of the device.
type Snapshot struct {
	Mode    string `yaml:"mode"`
	Seconds uint32 `yaml:"seconds"`

	// the seconds counter as a date. for information only. the value is
	// ignored when the snapshot is loaded
	Time string `yaml:"time,omitempty"`

	WriteProtect bool     `yaml:"write_protect"`
	PRAM         []string `yaml:"pram"`
}

// NewSnapshot creates a snapshot. The length of data must agree with the
// mode.
func NewSnapshot(mode pram.Mode, seconds uint32, writeProtect bool, data []uint8) *Snapshot {
	s := &Snapshot{
		Mode:         mode.String(),
		Seconds:      seconds,
		Time:         host.FormatMacTime(seconds),
		WriteProtect: writeProtect,
	}
	for i := 0; i < len(data); i += rowLen {
		row := data[i:min(i+rowLen, len(data))]
		r := make([]string, len(row))
		for j, v := range row {
			r[j] = fmt.Sprintf("%02x", v)
		}
		s.PRAM = append(s.PRAM, strings.Join(r, " "))
	}
	return s
}

// FromMemory creates a snapshot of a device's storage.
func FromMemory(mem *pram.Memory) *Snapshot {
	return NewSnapshot(mem.Mode, mem.Clock.Seconds(), mem.WriteProtect, mem.Data)
}

// StorageMode returns the Mode field as a pram.Mode.
func (s *Snapshot) StorageMode() (pram.Mode, error) {
	return pram.ParseMode(s.Mode)
}

// Bytes returns the memory in the snapshot.
func (s *Snapshot) Bytes() ([]uint8, error) {
	data := make([]uint8, 0, XSize)
	for i, row := range s.PRAM {
		for _, f := range strings.Fields(row) {
			v, err := strconv.ParseUint(f, 16, 8)
			if err != nil {
				return nil, curated.Errorf("image: row %d: %v", i, err)
			}
			data = append(data, uint8(v))
		}
	}
	return data, nil
}

// Validate checks that the snapshot is well formed.
func (s *Snapshot) Validate() error {
	mode, err := s.StorageMode()
	if err != nil {
		return curated.Errorf("image: %v", err)
	}
	data, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(data) != mode.Size() {
		return curated.Errorf(WrongSize, len(data), mode.Size())
	}
	return nil
}

// Restore the snapshot to a device's storage. The mode of the snapshot must
// be the same as the mode of the device.
func (s *Snapshot) Restore(mem *pram.Memory) error {
	if err := s.Validate(); err != nil {
		return err
	}
	mode, _ := s.StorageMode()
	if mode != mem.Mode {
		return curated.Errorf("image: snapshot is for a %s device", mode)
	}
	data, _ := s.Bytes()
	copy(mem.Data, data)
	mem.WriteProtect = s.WriteProtect
	mem.Clock.SetSeconds(s.Seconds)
	return nil
}

// Save the snapshot to a file.
func (s *Snapshot) Save(filename string) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return curated.Errorf("image: %v", err)
	}
	if err := os.WriteFile(filename, b, 0600); err != nil {
		return curated.Errorf("image: %v", err)
	}
	return nil
}

// Load a snapshot from a file. The snapshot is validated.
func Load(filename string) (*Snapshot, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, curated.Errorf("image: %v", err)
	}

	s := &Snapshot{}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, curated.Errorf("image: %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
