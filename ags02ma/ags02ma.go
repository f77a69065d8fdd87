// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ags02ma

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"

	"github.com/GermanBionicSystems/airsense/common"
	"github.com/GermanBionicSystems/airsense/delay"
)

// Addr is the fixed I²C address of the sensor.
const Addr uint16 = 0x1a

const (
	cmdTVOC       byte = 0x00
	cmdResistance byte = 0x20

	// responseLength is 4 data bytes followed by their CRC8.
	responseLength = 5

	// settleTime is how long the sensor needs to complete a measurement.
	settleTime = 1500 * time.Millisecond

	tvocMask = 0x00ffffff
	// The resistance is reported in units of 100Ω.
	resistanceUnit = 100
)

// TVOC is a total volatile organic compounds concentration in ppb.
type TVOC uint32

func (t TVOC) String() string {
	return strconv.FormatUint(uint64(t), 10) + "ppb"
}

// Resistance is the gas element resistance in Ω.
type Resistance uint64

func (r Resistance) String() string {
	return strconv.FormatUint(uint64(r), 10) + "Ω"
}

// ElectricResistance returns r as a physic value. It saturates at the
// largest representable resistance.
func (r Resistance) ElectricResistance() physic.ElectricResistance {
	const maxOhms = uint64(1<<63-1) / uint64(physic.Ohm)
	if uint64(r) > maxOhms {
		return physic.ElectricResistance(1<<63 - 1)
	}
	return physic.ElectricResistance(r) * physic.Ohm
}

// Dev is a handle to an AGS02MA.
type Dev struct {
	c common.Conn
	d delay.Delayer
}

// New returns a Dev talking through c and blocking through d.
func New(c common.Conn, d delay.Delayer) *Dev {
	return &Dev{c: c, d: d}
}

// NewI2C returns a Dev on bus b at Addr.
func NewI2C(b drivers.I2C, d delay.Delayer) *Dev {
	return New(common.NewConn(b, Addr), d)
}

// ReadGasResistance measures the resistance of the gas element.
func (d *Dev) ReadGasResistance() (Resistance, error) {
	raw, err := d.execute(cmdResistance, settleTime)
	if err != nil {
		return 0, err
	}
	return Resistance(raw) * resistanceUnit, nil
}

// ReadTVOC measures the TVOC concentration. The top byte of the frame holds
// sensor status bits and is discarded.
func (d *Dev) ReadTVOC() (TVOC, error) {
	raw, err := d.execute(cmdTVOC, settleTime)
	if err != nil {
		return 0, err
	}
	return TVOC(raw & tvocMask), nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ags02ma: %s", d.c)
}

// execute sends cmd, waits settle and returns the validated big endian
// payload of the response.
func (d *Dev) execute(cmd byte, settle time.Duration) (uint32, error) {
	if err := d.c.Write([]byte{cmd}); err != nil {
		return 0, &BusWriteError{Err: err}
	}
	d.d.Delay(settle)
	r := make([]byte, responseLength)
	if err := d.c.Read(r); err != nil {
		return 0, &BusReadError{Err: err}
	}
	if err := common.CheckCRC8(r); err != nil {
		return 0, fmt.Errorf("ags02ma: cmd 0x%02x: %w", cmd, err)
	}
	return binary.BigEndian.Uint32(r[:4]), nil
}
