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

// Package wavwriter records the activity of the device's lines to disk as a
// WAV file. Each line is one channel of the file. A high level is recorded as
// the maximum sample value and a low level as the minimum.
//
// The recording can be viewed with any audio editor, which makes for a poor
// man's logic analyser. Note that samples are buffered in memory in their
// entirety, and written to disk when the recording ends. It is therefore
// only suitable for short recordings.
package wavwriter

import (
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/hardware/pins"
	"github.com/macrtc/macrtc/logger"
)

const bitDepth = 16

// sample values for the two levels.
const (
	sampleHigh = 1<<(bitDepth-1) - 1
	sampleLow  = -(1 << (bitDepth - 1))
)

// WavWriter buffers samples of a set of lines.
type WavWriter struct {
	filename   string
	labels     []string
	sampleRate int
	buffer     []int
}

// New is the preferred method of initialisation for the WavWriter type. The
// sample period is the time between calls to Sample(). The labels name each
// channel, in the order they are passed to Sample().
func New(filename string, period time.Duration, labels ...string) (*WavWriter, error) {
	if len(labels) == 0 {
		return nil, curated.Errorf("wavwriter: %v", "no channels")
	}
	if period <= 0 {
		return nil, curated.Errorf("wavwriter: %v", "sample period must be positive")
	}

	aw := &WavWriter{
		filename:   filename,
		labels:     labels,
		sampleRate: int(time.Second / period),
		buffer:     make([]int, 0),
	}

	return aw, nil
}

// Sample records the level of every channel. Missing levels are recorded as
// low and extra levels are ignored.
func (aw *WavWriter) Sample(levels ...pins.Level) {
	for i := range aw.labels {
		v := sampleLow
		if i < len(levels) && levels[i] == pins.High {
			v = sampleHigh
		}
		aw.buffer = append(aw.buffer, v)
	}
}

// Len returns the number of samples recorded for each channel.
func (aw *WavWriter) Len() int {
	return len(aw.buffer) / len(aw.labels)
}

// EndMixing writes the buffered samples to disk.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	// audio format 1 is linear PCM
	enc := wav.NewEncoder(f, aw.sampleRate, bitDepth, len(aw.labels), 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(aw.labels),
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(logger.Allow, "wavwriter", "writing %d samples of %v to %s", aw.Len(), aw.labels, aw.filename)

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}

// Recording is a decoded recording.
type Recording struct {
	SampleRate int
	Channels   [][]pins.Level
}

// Read decodes a recording made by a WavWriter.
func Read(filename string) (*Recording, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("wavwriter: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if dec == nil {
		return nil, curated.Errorf("wavwriter: %v", "error decoding")
	}
	if !dec.IsValidFile() {
		return nil, curated.Errorf("wavwriter: %v", "not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, curated.Errorf("wavwriter: %v", err)
	}

	n := int(dec.NumChans)
	rec := &Recording{
		SampleRate: int(dec.SampleRate),
		Channels:   make([][]pins.Level, n),
	}
	for i, v := range buf.Data {
		rec.Channels[i%n] = append(rec.Channels[i%n], pins.Level(v > 0))
	}

	return rec, nil
}

// Edges returns the number of level changes in a channel.
func (rec *Recording) Edges(channel int) int {
	if channel < 0 || channel >= len(rec.Channels) {
		return 0
	}
	var n int
	ch := rec.Channels[channel]
	for i := 1; i < len(ch); i++ {
		if ch[i] != ch[i-1] {
			n++
		}
	}
	return n
}
