// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"

	"github.com/GermanBionicSystems/airsense/ags02ma"
	"github.com/GermanBionicSystems/airsense/aht20"
	"github.com/GermanBionicSystems/airsense/delay"
	"github.com/GermanBionicSystems/airsense/panel"
	"github.com/GermanBionicSystems/airsense/sharedbus"
)

// monitor reads both sensors in turn and shows every reading for pause.
type monitor struct {
	bus   *sharedbus.Manager
	timer *delay.Timer
	// disp is nil when no display is attached.
	disp    display.Drawer
	pause   time.Duration
	retries int
	ahtOpts aht20.Opts
}

// withSensor runs fn with exclusive use of the bus and the timer. Both are
// returned before withSensor returns.
func (m *monitor) withSensor(fn func(b i2c.Bus, d delay.Delayer) error) error {
	h, err := m.bus.Acquire()
	if err != nil {
		return errors.Wrap(err, "couldn't acquire bus")
	}
	defer h.Release()
	s, err := m.timer.Lend()
	if err != nil {
		return errors.Wrap(err, "couldn't lend timer")
	}
	defer s.Release()
	return fn(h, s)
}

// retry runs fn up to m.retries times and counts the final failure.
func (m *monitor) retry(sensor, op string, fn func(b i2c.Bus, d delay.Delayer) error) error {
	attempts := max(m.retries, 1)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		lastErr = m.withSensor(fn)
		if lastErr == nil {
			return nil
		}
		log.WithFields(log.Fields{"sensor": sensor, "op": op, "attempt": i}).Warnf("retrying error: %s", lastErr)
	}
	sensorErrors.WithLabelValues(sensor).Inc()
	return errors.Wrapf(lastErr, "all %d tries to %s failed", attempts, op)
}

// show renders a reading and leaves it on screen for m.pause.
func (m *monitor) show(title, value string) {
	log.Infof("%s: %s", title, value)
	if m.disp != nil {
		if err := panel.Render(m.disp, title, value); err != nil {
			log.Errorf("failed to draw %q: %s", title, err)
		}
	}
	m.timer.Delay(m.pause)
}

// calibrate runs the AHT20 start-up routine.
func (m *monitor) calibrate() error {
	return m.retry("aht20", "calibrate", func(b i2c.Bus, d delay.Delayer) error {
		return aht20.NewI2C(b, d, &m.ahtOpts).EnsureCalibrated()
	})
}

// cycle reads every value once and returns the number of screens shown. A
// failed read is logged and its screen is skipped.
func (m *monitor) cycle() int {
	shown := 0
	var tvoc ags02ma.TVOC
	err := m.retry("ags02ma", "read TVOC", func(b i2c.Bus, d delay.Delayer) error {
		var err error
		tvoc, err = ags02ma.NewI2C(b, d).ReadTVOC()
		return err
	})
	if err != nil {
		log.Errorf("failed to read from sensor: %s", err)
	} else {
		gaugeTVOC.Set(float64(tvoc))
		m.show("Gas reading", fmt.Sprintf("%d ppb", tvoc))
		shown++
	}

	var res ags02ma.Resistance
	err = m.retry("ags02ma", "read gas resistance", func(b i2c.Bus, d delay.Delayer) error {
		var err error
		res, err = ags02ma.NewI2C(b, d).ReadGasResistance()
		return err
	})
	if err != nil {
		log.Errorf("failed to read from sensor: %s", err)
	} else {
		gaugeResistance.Set(float64(res))
		m.show("Gas resistance", fmt.Sprintf("%d ohm", res))
		shown++
	}

	var h aht20.Humidity
	var t aht20.Temperature
	err = m.retry("aht20", "read", func(b i2c.Bus, d delay.Delayer) error {
		var err error
		h, t, err = aht20.NewI2C(b, d, &m.ahtOpts).Read()
		return err
	})
	if err != nil {
		log.Errorf("failed to read from sensor: %s", err)
		return shown
	}
	gaugeHumidity.Set(h.RH())
	gaugeTemperature.Set(t.Celsius())
	m.show("Humidity", fmt.Sprintf("%.1f %%RH", h.RH()))
	m.show("Temperature", fmt.Sprintf("%.1f C", t.Celsius()))
	return shown + 2
}
