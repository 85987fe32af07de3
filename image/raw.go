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

// Package image reads and writes copies of parameter memory.
//
// Two formats are supported. Raw images are the bytes of memory and nothing
// else, the same as the files produced by the classic PRAM utilities. A
// traditional raw image is 20 bytes, group 1 followed by group 2. An extended
// raw image is 256 bytes in address order.
//
// Snapshots are YAML documents recording the entire state of the device:
// the storage mode, the seconds counter, the write-protect register and
// memory. The Store type uses snapshots to keep device state across
// restarts.
package image

import (
	"io"
	"os"

	"github.com/macrtc/macrtc/curated"
)

// Sizes of raw images.
const (
	TradSize = 20
	XSize    = 256
)

// Sentinal errors.
const (
	WrongSize = "image: wrong size (%d bytes, expected %d)"
)

// ReadRaw reads a raw image of the given size.
func ReadRaw(r io.Reader, size int) ([]uint8, error) {
	data := make([]uint8, size)
	n, err := io.ReadFull(r, data)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, curated.Errorf(WrongSize, n, size)
		}
		return nil, curated.Errorf("image: %v", err)
	}
	return data, nil
}

// ReadRawFile reads a raw image from a file. The file must be at least as
// long as the image. Trailing bytes are ignored.
func ReadRawFile(filename string, size int) ([]uint8, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("image: %v", err)
	}
	defer f.Close()
	return ReadRaw(f, size)
}

// WriteRawFile writes a raw image to a file.
func WriteRawFile(filename string, data []uint8) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("image: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("image: %v", err)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return curated.Errorf("image: %v", err)
	}
	return nil
}
