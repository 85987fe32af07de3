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

// Package shell is the interactive command line for a device on the bench.
// Commands are named after the host library operations that they call. Input
// that is not a command is passed to the memory monitor when a monitor mode
// is enabled.
//
// Most arguments are 8-bit hexadecimal numbers, with or without a 0x prefix.
//
//	* gen-send-write-cmd 10 ab
//	* gen-send-read-cmd 10
//	0xab
package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/logger"
	"github.com/macrtc/macrtc/monitor"
	"github.com/macrtc/macrtc/terminal"
	"github.com/macrtc/macrtc/version"
)

// Prompt shown when waiting for a command.
const Prompt = "*"

// DefaultCaptureFile is the file used by sim-rec when no filename is given.
const DefaultCaptureFile = "macrtc.wav"

// Sentinal errors.
const (
	ArgumentSyntax = "Error: Argument syntax error"
	UnknownCommand = "Error: Unknown command"
)

// Shell is the interactive command line.
type Shell struct {
	bench *bench.Bench
	term  terminal.Terminal
	mon   *monitor.Monitor

	// output for the monitor, the test suite and scripts
	out *lineWriter
}

// NewShell is the preferred method of initialisation for the Shell type.
func NewShell(b *bench.Bench, term terminal.Terminal) *Shell {
	sh := &Shell{
		bench: b,
		term:  term,
		out: &lineWriter{
			term:  term,
			style: terminal.StyleFeedback,
		},
	}
	sh.mon = monitor.NewMonitor(b.Host, sh.out)
	return sh
}

// Monitor returns the shell's memory monitor.
func (sh *Shell) Monitor() *monitor.Monitor {
	return sh.mon
}

// Run the shell until the quit command or the end of input. The terminal
// should have been initialised.
func (sh *Shell) Run(ctx context.Context) error {
	if sh.term.IsInteractive() {
		sh.term.TermPrintLine(terminal.StyleInfo, version.String())
		sh.term.TermPrintLine(terminal.StyleInfo, "Type help for summary of commands.")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := sh.term.TermRead(Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || curated.Is(err, terminal.UserInterrupt) {
				return nil
			}
			return curated.Errorf("shell: %v", err)
		}

		quit, err := sh.Exec(ctx, line)
		if err != nil {
			logger.Logf(sh.bench.Env(), "shell", "%s: %v", strings.TrimSpace(line), err)
			sh.term.TermPrintLine(terminal.StyleError, err.Error())
		}
		if quit {
			return nil
		}
	}
}

// Exec executes one line of input. It returns true if the line was the quit
// command.
func (sh *Shell) Exec(ctx context.Context, line string) (bool, error) {
	defer sh.out.flush()

	line = strings.TrimRight(line, "\r\n")

	cmd := strings.TrimLeft(line, " \t")
	var rest string
	if i := strings.IndexAny(cmd, " \t"); i >= 0 {
		cmd, rest = cmd[:i], strings.TrimSpace(cmd[i:])
	}

	switch cmd {
	case "q", "quit":
		return true, nil
	case "":
		// an empty line continues the monitor dump
		if sh.mon.Enabled() {
			return false, sh.mon.Exec("\n")
		}
		return false, nil
	}

	err := sh.command(ctx, cmd, rest)
	if curated.Is(err, UnknownCommand) && sh.mon.Enabled() {
		return false, sh.mon.Exec(line + "\n")
	}
	return false, err
}

// print a line of feedback.
func (sh *Shell) print(s string) {
	sh.term.TermPrintLine(terminal.StyleFeedback, s)
}
