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

package preferences_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/macrtc/macrtc/hardware/clocks"
	"github.com/macrtc/macrtc/hardware/pram"
	"github.com/macrtc/macrtc/hardware/preferences"
	"github.com/macrtc/macrtc/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.StorageMode(), pram.Extended)
	test.ExpectEquality(t, p.Clock(), clocks.Watch)
	test.ExpectEquality(t, p.BootSeconds(), pram.DefaultSeconds)
	test.ExpectEquality(t, p.QuarterCycle(), 500*time.Microsecond)
}

func TestValidation(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "preferences"))
	test.DemandSuccess(t, err)

	test.ExpectFailure(t, p.Mode.Set("huge"))
	test.ExpectFailure(t, p.Crystal.Set("16M"))
	test.ExpectFailure(t, p.Quarter.Set(0))
	test.ExpectEquality(t, p.StorageMode(), pram.Extended)

	test.ExpectSuccess(t, p.ApplyCommandLine("rtc.mode::legacy; rtc.crystal::2M"))
	test.ExpectEquality(t, p.StorageMode(), pram.Legacy)
	test.ExpectEquality(t, p.Clock(), clocks.Internal2M)
}

func TestSaveAndLoad(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "preferences")

	p, err := preferences.NewPreferences(pth)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, p.Crystal.Set("8M"))
	test.ExpectSuccess(t, p.Seconds.Set("0x983b80d5"))
	test.ExpectSuccess(t, p.Save())

	q, err := preferences.NewPreferences(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.Clock(), clocks.Internal8M)
	test.ExpectEquality(t, q.BootSeconds(), uint32(0x983b80d5))
}
