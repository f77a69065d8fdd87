// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"periph.io/x/conn/v3/display/displaytest"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/GermanBionicSystems/airsense/ags02ma"
	"github.com/GermanBionicSystems/airsense/aht20"
	"github.com/GermanBionicSystems/airsense/delay"
	"github.com/GermanBionicSystems/airsense/sharedbus"
)

var (
	tvocOps = []i2ctest.IO{
		{Addr: ags02ma.Addr, W: []byte{0x00}},
		{Addr: ags02ma.Addr, R: []byte{0x00, 0x00, 0x03, 0xe8, 0x82}},
	}
	resistanceOps = []i2ctest.IO{
		{Addr: ags02ma.Addr, W: []byte{0x20}},
		{Addr: ags02ma.Addr, R: []byte{0x00, 0x00, 0x01, 0x00, 0x23}},
	}
	climateOps = []i2ctest.IO{
		{Addr: aht20.Addr, W: []byte{0xac, 0x33, 0x00}},
		{Addr: aht20.Addr, W: []byte{0x71}, R: []byte{0x18}},
		{Addr: aht20.Addr, R: []byte{0x18, 0x80, 0x00, 0x08, 0x00, 0x00, 0xd4}},
	}
)

type countingDrawer struct {
	displaytest.Drawer
	n int
}

func (c *countingDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	c.n++
	return c.Drawer.Draw(r, src, sp)
}

// autoAdvance wakes every sleeper on clk as soon as it blocks.
func autoAdvance(clk *clockwork.FakeClock) {
	go func() {
		for {
			clk.BlockUntil(1)
			clk.Advance(time.Hour)
		}
	}()
}

func newMonitor(ops []i2ctest.IO, retries int) (*monitor, *i2ctest.Playback, *countingDrawer) {
	bus := &i2ctest.Playback{Ops: ops, DontPanic: true}
	clk := clockwork.NewFakeClock()
	autoAdvance(clk)
	disp := &countingDrawer{Drawer: displaytest.Drawer{Img: image.NewNRGBA(image.Rect(0, 0, 128, 32))}}
	m := &monitor{
		bus:     sharedbus.New(bus),
		timer:   delay.NewWithClock(clk),
		disp:    disp,
		pause:   2 * time.Second,
		retries: retries,
		ahtOpts: aht20.DefaultOpts,
	}
	return m, bus, disp
}

func concat(ops ...[]i2ctest.IO) []i2ctest.IO {
	var out []i2ctest.IO
	for _, o := range ops {
		out = append(out, o...)
	}
	return out
}

func TestCycle(t *testing.T) {
	m, bus, disp := newMonitor(concat(tvocOps, resistanceOps, climateOps), 1)
	if n := m.cycle(); n != 4 {
		t.Fatalf("%d screens shown, expected 4", n)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
	if disp.n != 4 {
		t.Errorf("%d draws, expected 4", disp.n)
	}
	if v := testutil.ToFloat64(gaugeTVOC); v != 1000 {
		t.Errorf("tvoc gauge %f", v)
	}
	if v := testutil.ToFloat64(gaugeResistance); v != 25600 {
		t.Errorf("resistance gauge %f", v)
	}
	if v := testutil.ToFloat64(gaugeHumidity); v != 50 {
		t.Errorf("humidity gauge %f", v)
	}
	if v := testutil.ToFloat64(gaugeTemperature); v != 50 {
		t.Errorf("temperature gauge %f", v)
	}
	if m.timer.Lent() {
		t.Error("timer still lent")
	}
	h, err := m.bus.Acquire()
	if err != nil {
		t.Fatalf("bus still held: %v", err)
	}
	h.Release()
}

func TestCycle_Retry(t *testing.T) {
	badTVOC := []i2ctest.IO{
		{Addr: ags02ma.Addr, W: []byte{0x00}},
		{Addr: ags02ma.Addr, R: []byte{0x00, 0x00, 0x03, 0xe8, 0x83}},
	}
	before := testutil.ToFloat64(sensorErrors.WithLabelValues("ags02ma"))
	m, bus, disp := newMonitor(concat(badTVOC, tvocOps, resistanceOps, climateOps), 2)
	if n := m.cycle(); n != 4 {
		t.Fatalf("%d screens shown, expected 4", n)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
	if disp.n != 4 {
		t.Errorf("%d draws, expected 4", disp.n)
	}
	if after := testutil.ToFloat64(sensorErrors.WithLabelValues("ags02ma")); after != before {
		t.Errorf("error counter moved from %f to %f", before, after)
	}
}

func TestCycle_Failure(t *testing.T) {
	gasBefore := testutil.ToFloat64(sensorErrors.WithLabelValues("ags02ma"))
	climateBefore := testutil.ToFloat64(sensorErrors.WithLabelValues("aht20"))
	m, _, disp := newMonitor(nil, 2)
	if n := m.cycle(); n != 0 {
		t.Fatalf("%d screens shown, expected 0", n)
	}
	if disp.n != 0 {
		t.Errorf("%d draws, expected none", disp.n)
	}
	if d := testutil.ToFloat64(sensorErrors.WithLabelValues("ags02ma")) - gasBefore; d != 2 {
		t.Errorf("ags02ma errors grew by %f, expected 2", d)
	}
	if d := testutil.ToFloat64(sensorErrors.WithLabelValues("aht20")) - climateBefore; d != 1 {
		t.Errorf("aht20 errors grew by %f, expected 1", d)
	}
	if m.timer.Lent() {
		t.Error("timer still lent")
	}
}

func TestCycle_NoDisplay(t *testing.T) {
	m, bus, _ := newMonitor(concat(tvocOps, resistanceOps, climateOps), 1)
	m.disp = nil
	if n := m.cycle(); n != 4 {
		t.Fatalf("%d screens shown, expected 4", n)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCalibrate(t *testing.T) {
	m, bus, _ := newMonitor([]i2ctest.IO{
		{Addr: aht20.Addr, W: []byte{0x71}, R: []byte{0x18}},
	}, 1)
	if err := m.calibrate(); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenDisplay(t *testing.T) {
	bus := sharedbus.New(&i2ctest.Record{})
	d, err := openDisplay("none", bus)
	if err != nil || d != nil {
		t.Fatalf("none: %v, %v", d, err)
	}
	d, err = openDisplay("term", bus)
	if err != nil {
		t.Fatal(err)
	}
	if b := d.Bounds(); b.Dx() != 128 || b.Dy() != 32 {
		t.Errorf("term bounds %s", b)
	}
	if _, err := openDisplay("lcd", bus); err == nil {
		t.Error("expected an error for an unknown display")
	}
}
