// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aht20

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/airsense/common"
	"github.com/GermanBionicSystems/airsense/delay"
)

// Addr is the fixed I²C address of the sensor.
const Addr uint16 = 0x38

const (
	cmdStatus    byte = 0x71
	cmdCalibrate byte = 0xE1
	cmdMeasure   byte = 0xAC
	cmdSoftReset byte = 0xBA
	// OR'd with a register address to write the register back.
	cmdWriteRegister byte = 0xB0
)

var (
	argsCalibrate = []byte{cmdCalibrate, 0x08, 0x00}
	argsMeasure   = []byte{cmdMeasure, 0x33, 0x00}

	// Registers holding the factory calibration constants.
	calibrationRegisters = []byte{0x1B, 0x1C, 0x1E}
)

const (
	softResetTime     = 20 * time.Millisecond // according to datasheet
	registerSettle    = 10 * time.Millisecond
	measurementLength = 7
	fullScale         = 1 << 20
)

// Status is the status byte of the sensor.
type Status byte

// Status bits.
const (
	StatusBusy        Status = 1 << 7
	StatusModeMask    Status = 1<<6 | 1<<5
	StatusCRC         Status = 1 << 4
	StatusCalibrated  Status = 1 << 3
	StatusFIFOEnabled Status = 1 << 2
	StatusFIFOFull    Status = 1 << 1
	StatusFIFOEmpty   Status = 1 << 0
)

// Busy reports whether a measurement or calibration is in progress.
func (s Status) Busy() bool {
	return s&StatusBusy != 0
}

// Calibrated reports whether the calibration bit is set.
func (s Status) Calibrated() bool {
	return s&StatusCalibrated != 0
}

// Mode returns the two mode bits.
func (s Status) Mode() byte {
	return byte(s&StatusModeMask) >> 5
}

func (s Status) String() string {
	var flags []string
	if s.Busy() {
		flags = append(flags, "busy")
	}
	if s.Calibrated() {
		flags = append(flags, "calibrated")
	}
	if s&StatusCRC != 0 {
		flags = append(flags, "crc")
	}
	if s&StatusFIFOEnabled != 0 {
		flags = append(flags, "fifo")
	}
	if s&StatusFIFOFull != 0 {
		flags = append(flags, "fifo-full")
	}
	if s&StatusFIFOEmpty != 0 {
		flags = append(flags, "fifo-empty")
	}
	flags = append(flags, fmt.Sprintf("mode=%d", s.Mode()))
	return strings.Join(flags, "|")
}

// Humidity is a relative humidity reading.
type Humidity struct {
	raw uint32
}

// RH returns the relative humidity in %.
func (h Humidity) RH() float64 {
	return 100.0 * float64(h.raw) / fullScale
}

// Raw returns the 20 bit reading.
func (h Humidity) Raw() uint32 {
	return h.raw
}

// Value returns the reading as a physic value.
func (h Humidity) Value() physic.RelativeHumidity {
	return physic.RelativeHumidity(h.RH() * float64(physic.PercentRH))
}

func (h Humidity) String() string {
	return h.Value().String()
}

// Temperature is a temperature reading.
type Temperature struct {
	raw uint32
}

// Celsius returns the temperature in °C.
func (t Temperature) Celsius() float64 {
	return 200.0*float64(t.raw)/fullScale - 50.0
}

// Raw returns the 20 bit reading.
func (t Temperature) Raw() uint32 {
	return t.raw
}

// Value returns the reading as a physic value.
func (t Temperature) Value() physic.Temperature {
	return physic.Temperature(t.Celsius()*float64(physic.Kelvin)) + physic.ZeroCelsius
}

func (t Temperature) String() string {
	return t.Value().String()
}

// Opts holds the configuration options for the device.
type Opts struct {
	// PollInterval is the wait between two status reads while the sensor is
	// busy. Default is 10ms. Leave 0 to use default.
	PollInterval time.Duration
	// BusyTimeout bounds how long Calibrate and Read wait for the busy bit to
	// clear. A measurement takes 80ms according to the datasheet. Default is
	// 500ms. 0 means wait forever.
	BusyTimeout time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	PollInterval: 10 * time.Millisecond,
	BusyTimeout:  500 * time.Millisecond,
}

// Dev is a handle to an AHT20.
type Dev struct {
	c    common.Conn
	d    delay.Delayer
	opts Opts
}

// New returns a Dev talking through c and blocking through d. The Opts can
// be nil.
func New(c common.Conn, d delay.Delayer, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	dev := &Dev{c: c, d: d, opts: *opts}
	if dev.opts.PollInterval <= 0 {
		dev.opts.PollInterval = DefaultOpts.PollInterval
	}
	return dev
}

// NewI2C returns a Dev on bus b at Addr. The Opts can be nil.
func NewI2C(b drivers.I2C, d delay.Delayer, opts *Opts) *Dev {
	return New(common.NewConn(b, Addr), d, opts)
}

// Status reads the status byte.
func (d *Dev) Status() (Status, error) {
	r := []byte{0}
	if err := d.c.WriteRead([]byte{cmdStatus}, r); err != nil {
		return 0, &BusError{Op: "status", Err: err}
	}
	return Status(r[0]), nil
}

// Calibrate starts the sensor self calibration and waits for it to finish.
// It returns an UncalibratedError if the sensor does not report itself
// calibrated afterwards.
func (d *Dev) Calibrate() error {
	if err := d.c.Write(argsCalibrate); err != nil {
		return &BusError{Op: "calibrate", Err: err}
	}
	s, err := d.waitReady("calibrate")
	if err != nil {
		return err
	}
	if !s.Calibrated() {
		return &UncalibratedError{}
	}
	return nil
}

// SoftReset reboots the sensor. Completion is not verified.
func (d *Dev) SoftReset() error {
	if err := d.c.Write([]byte{cmdSoftReset}); err != nil {
		return &BusError{Op: "soft reset", Err: err}
	}
	d.d.Delay(softResetTime)
	return nil
}

// ResetRegister reads register reg and writes its content back, which
// restores the constant on sensors that lost it.
func (d *Dev) ResetRegister(reg byte) error {
	op := fmt.Sprintf("reset register 0x%02x", reg)
	if err := d.c.Write([]byte{reg, 0x00, 0x00}); err != nil {
		return &BusError{Op: op, Err: err}
	}
	d.d.Delay(registerSettle)
	r := make([]byte, 3)
	if err := d.c.Read(r); err != nil {
		return &BusError{Op: op, Err: err}
	}
	d.d.Delay(registerSettle)
	if err := d.c.Write([]byte{cmdWriteRegister | reg, r[1], r[2]}); err != nil {
		return &BusError{Op: op, Err: err}
	}
	d.d.Delay(registerSettle)
	return nil
}

// ResetCalibrationRegisters runs ResetRegister on 0x1B, 0x1C and 0x1E. The
// first failure aborts the sequence.
func (d *Dev) ResetCalibrationRegisters() error {
	for _, reg := range calibrationRegisters {
		if err := d.ResetRegister(reg); err != nil {
			return err
		}
	}
	return nil
}

// EnsureCalibrated checks the calibration bit and, when it is missing,
// rewrites the calibration registers and calibrates the sensor.
func (d *Dev) EnsureCalibrated() error {
	s, err := d.Status()
	if err != nil {
		return err
	}
	if s.Calibrated() {
		return nil
	}
	if err := d.ResetCalibrationRegisters(); err != nil {
		return err
	}
	return d.Calibrate()
}

// Read triggers a measurement, waits for it and returns the humidity and
// temperature.
//
// The frame is discarded as a whole if its CRC does not match or if the
// sensor reports itself uncalibrated.
func (d *Dev) Read() (Humidity, Temperature, error) {
	if err := d.c.Write(argsMeasure); err != nil {
		return Humidity{}, Temperature{}, &BusError{Op: "measure", Err: err}
	}
	if _, err := d.waitReady("measure"); err != nil {
		return Humidity{}, Temperature{}, err
	}
	data := make([]byte, measurementLength)
	if err := d.c.Read(data); err != nil {
		return Humidity{}, Temperature{}, &BusError{Op: "read measurement", Err: err}
	}
	if err := common.CheckCRC8(data); err != nil {
		return Humidity{}, Temperature{}, fmt.Errorf("aht20: measurement: %w", err)
	}
	if !Status(data[0]).Calibrated() {
		return Humidity{}, Temperature{}, &UncalibratedError{}
	}
	hRaw := uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4
	tRaw := (uint32(data[3])&0xF)<<16 | uint32(data[4])<<8 | uint32(data[5])
	return Humidity{raw: hRaw}, Temperature{raw: tRaw}, nil
}

// Sense returns the current temperature and humidity, the pressure is always
// 0 since the AHT20 does not measure pressure.
func (d *Dev) Sense(e *physic.Env) error {
	h, t, err := d.Read()
	if err != nil {
		return err
	}
	e.Temperature = t.Value()
	e.Humidity = h.Value()
	e.Pressure = 0
	return nil
}

// Precision returns the resolution of the sensor.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Humidity = 24 * physic.MilliRH
	e.Pressure = 0
}

func (d *Dev) String() string {
	return fmt.Sprintf("aht20: %s", d.c)
}

// waitReady reads the status until the busy bit clears and returns the last
// status read.
func (d *Dev) waitReady(op string) (Status, error) {
	maxPolls := 0
	if d.opts.BusyTimeout > 0 {
		maxPolls = 1 + int(d.opts.BusyTimeout/d.opts.PollInterval)
	}
	for polls := 1; ; polls++ {
		s, err := d.Status()
		if err != nil {
			return s, err
		}
		if !s.Busy() {
			return s, nil
		}
		if maxPolls > 0 && polls >= maxPolls {
			return s, &TimeoutError{Op: op, Polls: polls, Wait: time.Duration(polls-1) * d.opts.PollInterval}
		}
		d.d.Delay(d.opts.PollInterval)
	}
}
