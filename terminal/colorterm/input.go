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

package colorterm

import (
	"io"
	"unicode"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/terminal"
	"github.com/macrtc/macrtc/terminal/colorterm/easyterm"
	"github.com/macrtc/macrtc/terminal/colorterm/easyterm/ansi"
)

// TermRead implements the terminal.Input interface.
func (ct *ColorTerminal) TermRead(prompt string) (string, error) {
	ct.CBreakMode()
	defer ct.CanonicalMode()

	var input []rune
	cursor := 0
	history := len(ct.history)

	// the latest input is kept when scrolling through history so that it
	// can be returned to
	var stash []rune

	// the line is redrawn after every key. the cursor is stored and then
	// restored so that only the line contents need to be printed
	ct.TermPrint("\r")
	ct.TermPrint(ansi.CursorMove(len(prompt)))

	for {
		ct.TermPrint(ansi.CursorStore)
		ct.TermPrint(ansi.ClearLine)
		ct.TermPrint("\r")
		ct.TermPrint(ansi.PenStyles["bold"])
		ct.TermPrint(prompt)
		ct.TermPrint(ansi.NormalPen)
		ct.TermPrint(string(input))
		ct.TermPrint(ansi.CursorRestore)

		r, _, err := ct.reader.ReadRune()
		if err != nil {
			return "", err
		}

		switch r {
		case easyterm.KeyInterrupt:
			ct.TermPrint("\n")
			return "", curated.Errorf(terminal.UserInterrupt)

		case easyterm.KeyEOF:
			if len(input) == 0 {
				ct.TermPrint("\n")
				return "", io.EOF
			}

		case easyterm.KeyCarriageReturn, easyterm.KeyLineFeed:
			s := string(input)
			if s != "" && (len(ct.history) == 0 || ct.history[len(ct.history)-1] != s) {
				ct.history = append(ct.history, s)
			}
			ct.TermPrint("\n")
			return s, nil

		case easyterm.KeyEsc:
			r, _, err := ct.reader.ReadRune()
			if err != nil {
				return "", err
			}
			if r != easyterm.EscCursor {
				break
			}

			r, _, err = ct.reader.ReadRune()
			if err != nil {
				return "", err
			}

			switch r {
			case easyterm.CursorUp:
				if history == len(ct.history) {
					stash = append(stash[:0], input...)
				}
				if history > 0 {
					history--
					input = []rune(ct.history[history])
					ct.TermPrint(ansi.CursorMove(len(input) - cursor))
					cursor = len(input)
				}
			case easyterm.CursorDown:
				if history < len(ct.history)-1 {
					history++
					input = []rune(ct.history[history])
					ct.TermPrint(ansi.CursorMove(len(input) - cursor))
					cursor = len(input)
				} else if history == len(ct.history)-1 {
					history++
					input = append(input[:0:0], stash...)
					ct.TermPrint(ansi.CursorMove(len(input) - cursor))
					cursor = len(input)
				}
			case easyterm.CursorForward:
				if cursor < len(input) {
					ct.TermPrint(ansi.CursorForwardOne)
					cursor++
				}
			case easyterm.CursorBackward:
				if cursor > 0 {
					ct.TermPrint(ansi.CursorBackwardOne)
					cursor--
				}
			case easyterm.EscHome:
				ct.TermPrint(ansi.CursorMove(-cursor))
				cursor = 0
			case easyterm.EscEnd:
				ct.TermPrint(ansi.CursorMove(len(input) - cursor))
				cursor = len(input)
			case easyterm.EscDelete:
				// the delete key is followed by a tilde
				_, _, _ = ct.reader.ReadRune()
				if cursor < len(input) {
					input = append(input[:cursor], input[cursor+1:]...)
					history = len(ct.history)
				}
			}

		case easyterm.KeyBackspace, easyterm.KeyDelete:
			if cursor > 0 {
				input = append(input[:cursor-1], input[cursor:]...)
				ct.TermPrint(ansi.CursorBackwardOne)
				cursor--
				history = len(ct.history)
			}

		default:
			if unicode.IsPrint(r) {
				input = append(input, 0)
				copy(input[cursor+1:], input[cursor:])
				input[cursor] = r
				ct.TermPrint(ansi.CursorForwardOne)
				cursor++
				history = len(ct.history)
			}
		}
	}
}
