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

// Package script runs Lua scripts against a device on the bench. Scripts use
// the following global functions:
//
//	rtc_read(addr)          read a traditional address (0x00 to 0x1f)
//	rtc_write(addr, v)      write a traditional address
//	rtc_xread(addr)         read an extended address (0x00 to 0xff)
//	rtc_xwrite(addr, v)     write an extended address
//	rtc_time()              the host copy of the seconds counter
//	rtc_set_time(secs)      write the seconds counter. clears write-protect
//	rtc_dump_time()         read the seconds counter into the host copy
//	rtc_str_time([secs])    the seconds counter as a date string
//	rtc_wait(seconds)       advance bench time
//	rtc_protect(on)         set or clear write-protect
//	print(...)              print to the script output
//
// A failed rtc_dump_time() raises a Lua error.
package script

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/host"
	"github.com/macrtc/macrtc/logger"
	lua "github.com/yuin/gopher-lua"
)

// Script is a Lua interpreter connected to the bench.
type Script struct {
	bench *bench.Bench
	out   io.Writer
	L     *lua.LState
}

// NewScript is the preferred method of initialisation for the Script type.
func NewScript(b *bench.Bench, out io.Writer) *Script {
	scr := &Script{
		bench: b,
		out:   out,
		L:     lua.NewState(),
	}

	funcs := map[string]lua.LGFunction{
		"rtc_read":      scr.read,
		"rtc_write":     scr.write,
		"rtc_xread":     scr.xread,
		"rtc_xwrite":    scr.xwrite,
		"rtc_time":      scr.time,
		"rtc_set_time":  scr.setTime,
		"rtc_dump_time": scr.dumpTime,
		"rtc_str_time":  scr.strTime,
		"rtc_wait":      scr.wait,
		"rtc_protect":   scr.protect,
		"print":         scr.print,
	}
	for name, f := range funcs {
		scr.L.SetGlobal(name, scr.L.NewFunction(f))
	}

	return scr
}

// Close the interpreter. The Script cannot be used after Close().
func (scr *Script) Close() {
	scr.L.Close()
}

// RunFile runs the script in the named file.
func (scr *Script) RunFile(ctx context.Context, filename string) error {
	logger.Logf(scr.bench.Env(), "script", "running %s", filename)
	scr.L.SetContext(ctx)
	if err := scr.L.DoFile(filename); err != nil {
		return curated.Errorf("script: %v", err)
	}
	return nil
}

// RunString runs the script in the string.
func (scr *Script) RunString(ctx context.Context, src string) error {
	scr.L.SetContext(ctx)
	if err := scr.L.DoString(src); err != nil {
		return curated.Errorf("script: %v", err)
	}
	return nil
}

// checkAddr returns argument n as an address no greater than limit.
func checkAddr(L *lua.LState, n int, limit int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > limit {
		L.ArgError(n, fmt.Sprintf("address out of range (%#x)", v))
	}
	return uint8(v)
}

func checkByte(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xff {
		L.ArgError(n, fmt.Sprintf("value out of range (%#x)", v))
	}
	return uint8(v)
}

func (scr *Script) read(L *lua.LState) int {
	addr := checkAddr(L, 1, 0x1f)
	L.Push(lua.LNumber(scr.bench.Host.GenSendReadCmd(addr)))
	return 1
}

func (scr *Script) write(L *lua.LState) int {
	addr := checkAddr(L, 1, 0x1f)
	scr.bench.Host.GenSendWriteCmd(addr, checkByte(L, 2))
	return 0
}

func (scr *Script) xread(L *lua.LState) int {
	addr := checkAddr(L, 1, 0xff)
	L.Push(lua.LNumber(scr.bench.Host.GenSendReadXCmd(addr)))
	return 1
}

func (scr *Script) xwrite(L *lua.LState) int {
	addr := checkAddr(L, 1, 0xff)
	scr.bench.Host.GenSendWriteXCmd(addr, checkByte(L, 2))
	return 0
}

func (scr *Script) time(L *lua.LState) int {
	L.Push(lua.LNumber(scr.bench.Host.Time()))
	return 1
}

func (scr *Script) setTime(L *lua.LState) int {
	v := L.CheckNumber(1)
	if v < 0 || v > 0xffffffff {
		L.ArgError(1, "seconds out of range")
	}
	scr.bench.Host.SetTime(uint32(v))
	return 0
}

func (scr *Script) dumpTime(L *lua.LState) int {
	if err := scr.bench.Host.DumpTime(); err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(scr.bench.Host.Time()))
	return 1
}

func (scr *Script) strTime(L *lua.LState) int {
	secs := scr.bench.Host.Time()
	if L.GetTop() > 0 {
		secs = uint32(L.CheckNumber(1))
	}
	L.Push(lua.LString(host.FormatMacTime(secs)))
	return 1
}

func (scr *Script) wait(L *lua.LState) int {
	secs := L.CheckNumber(1)
	if secs < 0 {
		L.ArgError(1, "negative wait")
	}
	scr.bench.Wait(time.Duration(float64(secs) * float64(time.Second)))
	return 0
}

func (scr *Script) protect(L *lua.LState) int {
	if L.CheckBool(1) {
		scr.bench.Host.SetWriteProtect()
	} else {
		scr.bench.Host.ClearWriteProtect()
	}
	return 0
}

func (scr *Script) print(L *lua.LState) int {
	s := make([]string, L.GetTop())
	for i := range s {
		s[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(scr.out, strings.Join(s, "\t"))
	return 0
}
