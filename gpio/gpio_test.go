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

package gpio_test

import (
	"testing"

	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/gpio"
	"github.com/macrtc/macrtc/test"
)

func TestConfig(t *testing.T) {
	cfg := gpio.Config{Enable: 17, Clock: 27, Data: 22, OneSecond: 23}
	test.ExpectSuccess(t, cfg.Validate())
	test.ExpectEquality(t, cfg.Chip, gpio.DefaultChip)

	cfg = gpio.Config{Chip: "gpiochip1", Enable: 17, Clock: 17, Data: 22, OneSecond: 23}
	err := cfg.Validate()
	test.ExpectSuccess(t, curated.Is(err, gpio.BadConfig))
	test.ExpectEquality(t, cfg.Chip, "gpiochip1")

	cfg = gpio.Config{Enable: -1, Clock: 27, Data: 22, OneSecond: 23}
	test.ExpectSuccess(t, curated.Is(cfg.Validate(), gpio.BadConfig))
}
