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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/macrtc/macrtc/bench"
	"github.com/macrtc/macrtc/curated"
	"github.com/macrtc/macrtc/environment"
	"github.com/macrtc/macrtc/gpio"
	"github.com/macrtc/macrtc/hardware"
	"github.com/macrtc/macrtc/hardware/preferences"
	"github.com/macrtc/macrtc/image"
	"github.com/macrtc/macrtc/logger"
	"github.com/macrtc/macrtc/modalflag"
	"github.com/macrtc/macrtc/script"
	"github.com/macrtc/macrtc/shell"
	"github.com/macrtc/macrtc/suite"
	"github.com/macrtc/macrtc/terminal"
	"github.com/macrtc/macrtc/terminal/plainterm"
	"github.com/macrtc/macrtc/version"
)

// exit values.
const (
	exitOk          = 0
	exitSuiteFailed = 1
	exitParseError  = 10
	exitModeError   = 20
	exitInterrupted = 30
)

// how long a mode has to finish after an interrupt signal.
const interruptGrace = 2 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	done := make(chan int, 1)
	go func() {
		done <- launch(ctx, os.Args[1:], os.Stdout)
	}()

	var exitVal int
	select {
	case <-intChan:
		fmt.Println("\r")
		cancel()

		// give the mode a chance to finish. RUN mode saves the contents of
		// the device's memory
		select {
		case exitVal = <-done:
		case <-time.After(interruptGrace):
			exitVal = exitInterrupted
		}

	case exitVal = <-done:
	}

	cancel()
	os.Exit(exitVal)
}

// launch parses the arguments and runs the selected mode. It returns the
// process exit value.
func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("BENCH", "SUITE", "SCRIPT", "RUN")
	prefsFile := md.AddString("prefs", "", "preferences file")
	showVersion := md.AddBool("version", false, "print version information and exit")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOk
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	if *showVersion {
		fmt.Fprintln(output, version.String())
		return exitOk
	}

	switch md.Mode() {
	case "BENCH":
		err = benchMode(ctx, md, *prefsFile)
	case "SUITE":
		var ok bool
		ok, err = suiteMode(md, *prefsFile, output)
		if err == nil && !ok {
			return exitSuiteFailed
		}
	case "SCRIPT":
		err = scriptMode(ctx, md, *prefsFile, output)
	case "RUN":
		err = runMode(ctx, md, *prefsFile)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitModeError
	}

	return exitOk
}

// deviceFlags are the flags shared by every mode that creates a device.
type deviceFlags struct {
	mode    *string
	crystal *string
	log     *bool
}

func addDeviceFlags(md *modalflag.Modes) deviceFlags {
	return deviceFlags{
		mode:    md.AddString("mode", "", "storage mode of the device: legacy, extended"),
		crystal: md.AddString("crystal", "", "crystal driving the device's timer"),
		log:     md.AddBool("log", false, "echo log to stdout"),
	}
}

// newEnvironment creates the environment for the device. Preferences given
// on the command line override those in the preferences file but are not
// saved.
func newEnvironment(prefsFile string, df deviceFlags) (*environment.Environment, error) {
	p, err := preferences.NewPreferences(prefsFile)
	if err != nil {
		return nil, err
	}
	if *df.mode != "" {
		if err := p.Mode.Set(*df.mode); err != nil {
			return nil, err
		}
	}
	if *df.crystal != "" {
		if err := p.Crystal.Set(*df.crystal); err != nil {
			return nil, err
		}
	}

	if *df.log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	return environment.NewEnvironment(environment.MainEmulation, p)
}

// newBench creates a bench and starts capturing the lines if a filename is
// given. The returned function should be called when the bench is finished
// with.
func newBench(prefsFile string, df deviceFlags, wav string) (*bench.Bench, func() error, error) {
	env, err := newEnvironment(prefsFile, df)
	if err != nil {
		return nil, nil, err
	}

	b, err := bench.NewBench(env)
	if err != nil {
		return nil, nil, err
	}

	if wav == "" {
		return b, func() error { return nil }, nil
	}

	if err := b.StartCapture(wav); err != nil {
		return nil, nil, err
	}

	// the shell can stop the capture itself
	return b, func() error {
		if b.Capturing() {
			return b.StopCapture()
		}
		return nil
	}, nil
}

func benchMode(ctx context.Context, md *modalflag.Modes, prefsFile string) (rerr error) {
	md.NewMode()

	df := addDeviceFlags(md)
	wav := md.AddString("wav", "", "record line waveforms to wav file")
	color := md.AddBool("color", true, "use the colour terminal if possible")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	b, end, err := newBench(prefsFile, df, *wav)
	if err != nil {
		return err
	}
	defer func() {
		if err := end(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	var term terminal.Terminal
	if *color {
		term = newColorTerminal()
	}
	if term == nil {
		term = plainterm.NewPlainTerminal(nil, nil)
	}

	if err := term.Initialise(); err != nil {
		return err
	}
	defer term.CleanUp()

	// the shell may be waiting for input when the context is cancelled.
	// restore the terminal before the process exits
	stop := context.AfterFunc(ctx, term.CleanUp)
	defer stop()

	return shell.NewShell(b, term).Run(ctx)
}

func suiteMode(md *modalflag.Modes, prefsFile string, output io.Writer) (_ bool, rerr error) {
	md.NewMode()

	df := addDeviceFlags(md)
	wav := md.AddString("wav", "", "record line waveforms to wav file")
	verbose := md.AddBool("verbose", false, "print the values being compared")
	realtime := md.AddBool("realtime", true, "run the tests that depend on the passage of time")
	xpram := md.AddBool("xpram", true, "run the tests that require extended memory")
	seed := md.AddInt64("seed", 0, "seed for the random tests. zero for a new seed")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return true, err
	}

	if len(md.RemainingArgs()) > 0 {
		return false, fmt.Errorf("too many arguments for %s mode", md)
	}

	b, end, err := newBench(prefsFile, df, *wav)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := end(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	r := suite.Run(b, output, suite.Options{
		Verbose:     *verbose,
		SimRealTime: *realtime,
		TestXPram:   *xpram,
		Seed:        *seed,
	})
	return r.Ok(), nil
}

func scriptMode(ctx context.Context, md *modalflag.Modes, prefsFile string, output io.Writer) (rerr error) {
	md.NewMode()

	df := addDeviceFlags(md)
	wav := md.AddString("wav", "", "record line waveforms to wav file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("script file required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	b, end, err := newBench(prefsFile, df, *wav)
	if err != nil {
		return err
	}
	defer func() {
		if err := end(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	scr := script.NewScript(b, output)
	defer scr.Close()
	return scr.RunFile(ctx, md.GetArg(0))
}

func runMode(ctx context.Context, md *modalflag.Modes, prefsFile string) (rerr error) {
	md.NewMode()

	df := addDeviceFlags(md)
	chipName := md.AddString("gpiochip", gpio.DefaultChip, "GPIO chip")
	enable := md.AddInt("enable", -1, "offset of the enable line")
	clock := md.AddInt("clock", -1, "offset of the clock line")
	data := md.AddInt("data", -1, "offset of the data line")
	onesec := md.AddInt("onesec", -1, "offset of the one second line")
	storeFile := md.AddString("store", "", "file storing the device's memory between runs")
	quantum := md.AddInt("quantum", 1, "milliseconds between timer updates")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	env, err := newEnvironment(prefsFile, df)
	if err != nil {
		return err
	}

	store, err := image.NewStore(*storeFile)
	if err != nil {
		return err
	}

	bank, err := gpio.Open(env, gpio.Config{
		Chip:      *chipName,
		Enable:    *enable,
		Clock:     *clock,
		Data:      *data,
		OneSecond: *onesec,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := bank.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	chip, err := hardware.NewChip(env, bank.Port())
	if err != nil {
		return err
	}

	if err := store.Load(chip.Mem); err != nil {
		if !curated.Is(err, image.NoStore) {
			return err
		}
		logger.Log(env, "main", err)
	}

	bank.OnChange(chip.PinChange)

	// the foreground loop and the crystal run until the context is cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- chip.RunCrystal(ctx, time.Duration(*quantum)*time.Millisecond)
		cancel()
	}()
	go func() {
		defer wg.Done()
		errs <- chip.Run(ctx)
		cancel()
	}()
	wg.Wait()
	close(errs)

	for e := range errs {
		if e != nil && err == nil {
			err = e
		}
	}

	logger.Logf(env, "main", "saving device to %s", store)
	if serr := store.Save(chip.Mem); serr != nil && err == nil {
		err = serr
	}

	return err
}
