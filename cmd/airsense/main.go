// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// airsense shows the readings of an AGS02MA gas sensor and an AHT20
// humidity and temperature sensor on an SSD1306 OLED, and exports them to
// Prometheus.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/airsense/aht20"
	"github.com/GermanBionicSystems/airsense/delay"
	"github.com/GermanBionicSystems/airsense/sharedbus"
	"github.com/GermanBionicSystems/airsense/termdisplay"
)

// CLI args
var (
	busName     = flag.String("i2c", "", "I²C bus to use")
	displayKind = flag.String("display", "ssd1306", "display to use: ssd1306, term or none")
	interval    = flag.Duration("interval", 2*time.Second, "time each reading stays on screen")
	retries     = flag.Int("retries", 3, "max number of tries per sensor read")
	listenAddr  = flag.String("listen-address", ":9102", "The address to listen on for HTTP requests. Empty disables metrics.")
	logLevel    = flag.String("log-level", "info", "log level: debug, info, warn or error")
	busyTimeout = flag.Duration("busy-timeout", aht20.DefaultOpts.BusyTimeout, "max wait for the AHT20 busy bit to clear, 0 waits forever")
	calibrate   = flag.Bool("calibrate", false, "restore the AHT20 calibration at start-up if it is missing")
)

// The AGS02MA does not work above 30kHz.
var busSpeed = 30 * physic.KiloHertz

func init() {
	flag.Var(&busSpeed, "speed", "I²C bus clock, the AGS02MA needs 30kHz or less")

	//logging
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

// openBus opens the named I²C bus and sets its clock to f.
func openBus(name string, f physic.Frequency) (i2c.BusCloser, error) {
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open I²C")
	}
	if err := b.SetSpeed(f); err != nil {
		_ = b.Close()
		return nil, errors.Wrapf(err, "failed to set I²C speed to %s", f)
	}
	return b, nil
}

func openDisplay(kind string, bus *sharedbus.Manager) (display.Drawer, error) {
	switch kind {
	case "ssd1306":
		opts := ssd1306.DefaultOpts
		opts.H = 32
		opts.Sequential = true
		dev, err := ssd1306.NewI2C(bus.Transient(), &opts)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize display")
		}
		return dev, nil
	case "term":
		return termdisplay.New(&termdisplay.Opts{W: 128, H: 32}), nil
	case "none":
		return nil, nil
	default:
		return nil, errors.Errorf("unknown display %q", kind)
	}
}

func mainImpl() error {
	flag.Parse()
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		return errors.Wrap(err, "invalid -log-level")
	}
	log.SetLevel(lvl)

	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize periph")
	}
	b, err := openBus(*busName, busSpeed)
	if err != nil {
		return err
	}
	defer b.Close()

	bus := sharedbus.New(b)
	disp, err := openDisplay(*displayKind, bus)
	if err != nil {
		return err
	}
	if disp != nil {
		defer disp.Halt()
	}

	opts := aht20.DefaultOpts
	opts.BusyTimeout = *busyTimeout
	m := &monitor{
		bus:     bus,
		timer:   delay.New(),
		disp:    disp,
		pause:   *interval,
		retries: *retries,
		ahtOpts: opts,
	}
	if *calibrate {
		if err := m.calibrate(); err != nil {
			return err
		}
	}
	if *listenAddr != "" {
		go serveMetrics(*listenAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Infof("monitoring %s", bus)
	for ctx.Err() == nil {
		if m.cycle() == 0 {
			// Nothing was shown, keep the bus from being hammered.
			m.timer.Delay(*interval)
		}
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
