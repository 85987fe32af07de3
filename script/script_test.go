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

package script_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/hardware/preferences"
	"github.com/macrtc/macrtc/script"
	"github.com/macrtc/macrtc/test"
)

func newScript(t *testing.T) (*script.Script, *bench.Bench, *test.CompareWriter) {
	t.Helper()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, p.Log.Set(false))

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	test.DemandSuccess(t, err)

	b, err := bench.NewBench(env)
	test.DemandSuccess(t, err)

	out := &test.CompareWriter{}
	scr := script.NewScript(b, out)
	t.Cleanup(scr.Close)
	return scr, b, out
}

func TestMemory(t *testing.T) {
	scr, b, out := newScript(t)

	err := scr.RunString(context.Background(), `
rtc_write(0x10, 0xab)
rtc_xwrite(0x80, 0x55)
print(rtc_read(0x10), rtc_xread(0x80), rtc_xread(0x10))
`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "171\t85\t171\n")
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x80), uint8(0x55))
}

func TestTime(t *testing.T) {
	scr, b, out := newScript(t)

	err := scr.RunString(context.Background(), `
rtc_set_time(0x983b80d5)
rtc_wait(2)
local d = rtc_dump_time() - 0x983b80d5
print(d >= 2 and d <= 3, rtc_str_time(0))
`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "true\t1904-01-01 00:00:00\n")
	test.ExpectEquality(t, b.Host.Time(), b.Chip.Seconds())
}

func TestProtect(t *testing.T) {
	scr, b, _ := newScript(t)

	err := scr.RunString(context.Background(), `
rtc_write(0x11, 1)
rtc_protect(true)
rtc_write(0x11, 2)
`)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, b.Chip.Mem.WriteProtect)
	test.ExpectEquality(t, b.Chip.Mem.Peek(0x11), uint8(1))
}

func TestErrors(t *testing.T) {
	scr, _, _ := newScript(t)

	test.ExpectFailure(t, scr.RunString(context.Background(), `rtc_read(0x20)`))
	test.ExpectFailure(t, scr.RunString(context.Background(), `rtc_xwrite(0, 256)`))
	test.ExpectFailure(t, scr.RunString(context.Background(), `rtc_wait(-1)`))
	test.ExpectFailure(t, scr.RunString(context.Background(), `this is not lua`))
	test.ExpectFailure(t, scr.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")))
}

func TestRunFile(t *testing.T) {
	scr, _, out := newScript(t)

	fn := filepath.Join(t.TempDir(), "test.lua")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(`for i = 0, 3 do rtc_xwrite(i, i * 2) end print(rtc_xread(3))`), 0600))
	test.ExpectSuccess(t, scr.RunFile(context.Background(), fn))
	test.ExpectEquality(t, out.String(), "6\n")
}
