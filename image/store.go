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
	"errors"
	"io/fs"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/resources"
)

// DefaultStoreFile is the name of the store in the resources directory.
const DefaultStoreFile = "pram.yaml"

// NoStore is returned by Store.Load() if nothing has been saved yet.
const NoStore = "image: no saved state (%s)"

// Store keeps the state of a device on disk. It stands in for the battery
// backed memory of the real device.
type Store struct {
	path string
}

// NewStore is the preferred method of initialisation for the Store type. An
// empty path means the default store file in the resources directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = resources.JoinPath(DefaultStoreFile)
		if err != nil {
			return nil, curated.Errorf("image: %v", err)
		}
	}
	return &Store{path: path}, nil
}

func (st *Store) String() string {
	return st.path
}

// Save the state of the device.
func (st *Store) Save(mem *pram.Memory) error {
	return FromMemory(mem).Save(st.path)
}

// Load the saved state into the device.
func (st *Store) Load(mem *pram.Memory) error {
	s, err := Load(st.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return curated.Errorf(NoStore, st.path)
		}
		return err
	}
	return s.Restore(mem)
}
