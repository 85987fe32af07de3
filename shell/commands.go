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
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/host"
	"github.com/macrtc/macrtc/image"
	"github.com/macrtc/macrtc/logger"
	"github.com/macrtc/macrtc/monitor"
	"github.com/macrtc/macrtc/script"
	"github.com/macrtc/macrtc/suite"
	"github.com/macrtc/macrtc/terminal"
)

// parseBytes parses exactly n hexadecimal byte arguments.
func parseBytes(rest string, n int) ([]uint8, error) {
	f := strings.Fields(rest)
	if len(f) != n {
		return nil, curated.Errorf(ArgumentSyntax)
	}

	b := make([]uint8, n)
	for i, s := range f {
		s = strings.TrimPrefix(strings.ToLower(s), "0x")
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return nil, curated.Errorf(ArgumentSyntax)
		}
		b[i] = uint8(v)
	}
	return b, nil
}

// parseFilename returns the single filename argument.
func parseFilename(rest string) (string, error) {
	if rest == "" {
		return "", curated.Errorf(ArgumentSyntax)
	}
	return rest, nil
}

// result prints a byte in the form used for all single value results.
func (sh *Shell) result(v uint8) {
	sh.print(fmt.Sprintf("0x%02x", v))
}

// success prints 0x01 for a nil error and 0x00 otherwise. The error is
// logged.
func (sh *Shell) success(err error) {
	if err != nil {
		logger.Log(sh.bench.Env(), "shell", err)
		sh.result(0)
		return
	}
	sh.result(1)
}

func littleEndian(b []uint8) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (sh *Shell) printLittleEndian(v uint32) {
	sh.print(fmt.Sprintf("%02x %02x %02x %02x", v&0xff, (v>>8)&0xff, (v>>16)&0xff, v>>24))
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// the number of arguments for commands that take only byte arguments or no
// arguments at all
var byteArgs = map[string]int{
	"set-pram-type":       1,
	"get-pram-type":       0,
	"send-read-cmd":       1,
	"send-write-cmd":      2,
	"send-read-xcmd":      2,
	"send-write-xcmd":     3,
	"test-write":          0,
	"set-write-protect":   0,
	"clear-write-protect": 0,
	"dump-time":           0,
	"load-time":           0,
	"set-time":            4,
	"get-time":            0,
	"mac-to-str-time":     4,
	"get-str-time":        0,
	"set-cur-time":        0,
	"gen-cmd":             2,
	"gen-send-read-cmd":   1,
	"gen-send-write-cmd":  2,
	"dump-all-trad-mem":   0,
	"load-all-trad-mem":   0,
	"gen-xcmd":            2,
	"gen-send-read-xcmd":  1,
	"gen-send-write-xcmd": 2,
	"dump-all-xmem":       0,
	"load-all-xmem":       0,
	"host-trad-pram-cmd":  2,
	"host-write-xmem":     2,
	"host-read-xmem":      1,
	"set-mon-mode":        1,
	"get-mon-mode":        0,
	"mon-mem-access":      3,
	"sim-no-rec":          0,
	"auto-test-suite":     3,
	"status":              0,
	"lines":               0,
}

// command executes a named command. Returns an UnknownCommand error if the
// command is not recognised.
func (sh *Shell) command(ctx context.Context, cmd string, rest string) error {
	h := sh.bench.Host

	var p []uint8
	if n, ok := byteArgs[cmd]; ok {
		var err error
		p, err = parseBytes(rest, n)
		if err != nil {
			return err
		}
	}

	switch cmd {
	case "?", "help":
		sh.term.TermPrintLine(terminal.StyleHelp, helpText)

	case "set-pram-type":
		h.SetPramType(p[0] != 0)
	case "get-pram-type":
		sh.result(boolByte(h.PramType()))

	case "send-read-cmd":
		sh.result(h.SendReadCmd(p[0]))
	case "send-write-cmd":
		h.SendWriteCmd(p[0], p[1])
	case "send-read-xcmd":
		sh.result(h.SendReadXCmd(p[0], p[1]))
	case "send-write-xcmd":
		h.SendWriteXCmd(p[0], p[1], p[2])
	case "test-write":
		h.TestWrite()
	case "set-write-protect":
		h.SetWriteProtect()
	case "clear-write-protect":
		h.ClearWriteProtect()

	case "dump-time":
		sh.success(h.DumpTime())
	case "load-time":
		h.LoadTime()
	case "set-time":
		h.SetTime(littleEndian(p))
	case "get-time":
		sh.printLittleEndian(h.Time())
	case "mac-to-str-time":
		sh.print(host.FormatMacTime(littleEndian(p)))
	case "str-to-mac-time":
		secs, err := host.ParseMacTime(rest)
		if err != nil {
			return err
		}
		sh.printLittleEndian(secs)
	case "set-str-time":
		return h.SetStrTime(rest)
	case "get-str-time":
		sh.print(h.StrTime())
	case "set-cur-time":
		h.SetCurTime()

	case "gen-cmd":
		sh.result(host.GenCmd(p[0], p[1] != 0))
	case "gen-send-read-cmd":
		sh.result(h.GenSendReadCmd(p[0]))
	case "gen-send-write-cmd":
		h.GenSendWriteCmd(p[0], p[1])
	case "dump-all-trad-mem":
		h.DumpAllTradMem()
	case "load-all-trad-mem":
		h.LoadAllTradMem()
	case "gen-xcmd":
		c1, c2 := host.GenXCmd(p[0], p[1] != 0)
		sh.print(fmt.Sprintf("%02x %02x", c1, c2))
	case "gen-send-read-xcmd":
		sh.result(h.GenSendReadXCmd(p[0]))
	case "gen-send-write-xcmd":
		h.GenSendWriteXCmd(p[0], p[1])
	case "dump-all-xmem":
		h.DumpAllXMem()
	case "load-all-xmem":
		h.LoadAllXMem()

	case "host-trad-pram-cmd":
		sh.result(h.TradPramCmd(p[0], p[1]))
	case "host-write-xmem":
		h.WriteXMem(p[0], p[1])
	case "host-read-xmem":
		sh.result(h.ReadXMem(p[0]))

	case "set-mon-mode":
		return sh.mon.SetMode(monitor.Mode(p[0]))
	case "get-mon-mode":
		sh.result(uint8(sh.mon.Mode()))
	case "mon-mem-access":
		sh.result(sh.mon.Access(uint16(p[0]), p[1] != 0, p[2]))

	case "file-load-all-trad-mem":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		sh.success(sh.fileLoadTrad(fn))
	case "file-dump-all-trad-mem":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		sh.success(image.WriteRawFile(fn, h.TradMem()))
	case "file-load-all-xmem":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		sh.success(sh.fileLoadX(fn))
	case "file-dump-all-xmem":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		sh.success(image.WriteRawFile(fn, h.PRAM[:]))
	case "file-load-snapshot":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		sh.success(sh.fileLoadSnapshot(fn))
	case "file-dump-snapshot":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		sh.success(image.FromMemory(sh.bench.Chip.Mem).Save(fn))

	case "sim-rec":
		fn := rest
		if fn == "" {
			fn = DefaultCaptureFile
		}
		return sh.bench.StartCapture(fn)
	case "sim-no-rec":
		return sh.bench.StopCapture()

	case "auto-test-suite":
		r := suite.Run(sh.bench, sh.out, suite.Options{
			Verbose:     p[0] != 0,
			SimRealTime: p[1] != 0,
			TestXPram:   p[2] != 0,
		})
		sh.out.flush()
		sh.result(boolByte(r.Ok()))

	case "status":
		sh.print(strings.TrimRight(sh.bench.String(), "\n"))
	case "lines":
		sh.print(strings.TrimRight(sh.bench.Lines(), "\n"))
	case "viz":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		return sh.viz(fn)
	case "log":
		return sh.log(rest)
	case "script":
		fn, err := parseFilename(rest)
		if err != nil {
			return err
		}
		scr := script.NewScript(sh.bench, sh.out)
		defer scr.Close()
		return scr.RunFile(ctx, fn)
	case "wait-sec":
		secs, err := strconv.ParseFloat(rest, 64)
		if err != nil || secs < 0 {
			return curated.Errorf(ArgumentSyntax)
		}
		sh.bench.Wait(time.Duration(secs * float64(time.Second)))

	default:
		return curated.Errorf(UnknownCommand)
	}

	return nil
}

func (sh *Shell) fileLoadTrad(filename string) error {
	data, err := image.ReadRawFile(filename, image.TradSize)
	if err != nil {
		return err
	}
	sh.bench.Host.SetTradMem(data)
	sh.bench.Host.LoadAllTradMem()
	return nil
}

func (sh *Shell) fileLoadX(filename string) error {
	data, err := image.ReadRawFile(filename, image.XSize)
	if err != nil {
		return err
	}
	copy(sh.bench.Host.PRAM[:], data)
	sh.bench.Host.LoadAllXMem()
	return nil
}

func (sh *Shell) fileLoadSnapshot(filename string) error {
	s, err := image.Load(filename)
	if err != nil {
		return err
	}
	return s.Restore(sh.bench.Chip.Mem)
}

// the values shown by the viz command. only exported fields are visited.
type vizState struct {
	Storage   *image.Snapshot
	Completed uint64
	Aborted   uint64
	Invalid   uint64
}

func (sh *Shell) viz(filename string) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf("viz: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("viz: %v", err)
		}
	}()

	chip := sh.bench.Chip
	memviz.Map(f, &vizState{
		Storage:   image.FromMemory(chip.Mem),
		Completed: chip.Serial.Completed,
		Aborted:   chip.Serial.Aborted,
		Invalid:   chip.Serial.Invalid,
	})
	return nil
}

func (sh *Shell) log(rest string) error {
	w := &lineWriter{term: sh.term, style: terminal.StyleFeedback}
	defer w.flush()

	if rest == "" {
		logger.Write(w)
		return nil
	}

	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return curated.Errorf(ArgumentSyntax)
	}
	logger.Tail(w, n)
	return nil
}
