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

const helpText = `Summary of command-line commands:
    ?, help -- show this help page
    set-pram-type isXPram -- 0 for 20-byte PRAM, 1 for XPRAM (default)
    get-pram-type
    send-read-cmd cmd
    send-write-cmd cmd data
    send-read-xcmd cmd1 cmd2
    send-write-xcmd cmd1 cmd2 data
    test-write
    set-write-protect
    clear-write-protect
    dump-time -- copy time from RTC to host
    load-time -- clear write-protect, copy time from host to RTC
    set-time b1 b2 b3 b4 -- also clears write-protect
    get-time
    mac-to-str-time b1 b2 b3 b4
    str-to-mac-time timeStr
    set-str-time timeStr -- also clears write-protect
    get-str-time
    set-cur-time -- also clears write-protect
    gen-cmd address writeRequest
    gen-send-read-cmd address
    gen-send-write-cmd address data
    dump-all-trad-mem -- copy all traditional 20-byte PRAM memory from
                         RTC to host
    load-all-trad-mem -- clear write-protect, copy from host to RTC
    gen-xcmd address writeRequest
    gen-send-read-xcmd address
    gen-send-write-xcmd address data
    dump-all-xmem
    load-all-xmem -- also clears write-protect
    host-trad-pram-cmd cmd data
    host-write-xmem address data
    host-read-xmem address
    set-mon-mode newMode -- 0 = disable, 1 = traditional PRAM,
                            2 = XPRAM
    get-mon-mode
    mon-mem-access address writeRequest data
    file-load-all-trad-mem filename -- also clears write-protect
    file-dump-all-trad-mem filename
    file-load-all-xmem filename -- also clears write-protect
    file-dump-all-xmem filename
    file-load-snapshot filename -- restore the device from a snapshot
    file-dump-snapshot filename -- save the device to a snapshot
    sim-rec [filename] -- start recording line waveforms to a WAV file
    sim-no-rec -- stop recording line waveforms
    auto-test-suite verbose simRealTime testXPram
    status -- show the state of the device
    lines -- show the levels of the lines
    viz filename -- write a graphviz description of the device
    log [number] -- show the most recent log entries
    script filename -- run a Lua script
    wait-sec seconds -- let time pass on the bench
    q, quit -- exit the program

All arguments are 8-bit hexadecimal integers, except for file names,
string time and the arguments of log and wait-sec, which are decimal.

String time is of the form "YYYY-MM-DD HH:MM:SS".

If one of the "monitor modes" is enabled, a subset of the most basic
Apple II monitor commands can be used and it will operate in the
configured address space. Namely, dumping memory and writing memory
contents.

For example, to write memory:

You type> 0000: 01 02 1a 2c

To dump memory:

You type> 00C0
You get> 00C0- 53 52 68 2E 0A 00 00 68

Other noteworthy tricks:

* Type a memory address and ENTER to dump one line of memory.

* Press ENTER repeatedly to dump the next line of memory.

* Type "." (dot) ADDR and ENTER to dump memory from the last address
  up to the given address.

* You can omit the address and type ":" when writing memory to
  continue from the last address.

* "-" (hyphen) is also supported on entry for convenience.`
