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

package shell

import (
	"strings"

	"github.com/macrtc/macrtc/terminal"
)

// lineWriter is an io.Writer that sends complete lines to the terminal. Any
// partial line is held until the next newline or until flush() is called.
type lineWriter struct {
	term  terminal.Output
	style terminal.Style
	buf   strings.Builder
}

func (w *lineWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			w.term.TermPrintLine(w.style, w.buf.String())
			w.buf.Reset()
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if w.buf.Len() > 0 {
		w.term.TermPrintLine(w.style, w.buf.String())
		w.buf.Reset()
	}
}
