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

// Package hardware is the base package for the emulated real time clock and
// parameter memory chip. The Chip type collects all the components and
// implements the firmware of the device.
//
// The firmware has two contexts. Interrupt handlers react to pin changes on
// the enable and clock lines, and to overflows of the timer. The foreground
// loop consumes the events latched by the pin change handler and runs the
// serial transaction state machine. Between events the foreground loop
// sleeps.
//
// For the simulated bench the chip is driven synchronously: the bench raises
// pin change interrupts when it changes a wire, advances the timer with
// Tick() or Elapse() and then calls Service() to run the foreground loop
// until there is nothing left to do.
//
// On real hardware, Run() is the foreground loop and RunCrystal() turns the
// passing of wall clock time into timer ticks.
package hardware
