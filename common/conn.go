// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// Conn is a transaction handle bound to one device address. The sensor
// drivers only ever need these three I²C transaction shapes.
type Conn interface {
	// Write sends w to the device.
	Write(w []byte) error
	// Read fills r from the device.
	Read(r []byte) error
	// WriteRead sends w then reads into r with a repeated start.
	WriteRead(w, r []byte) error
}

// NewConn binds bus to the device at addr.
//
// Any periph i2c.Bus satisfies drivers.I2C, as does TinyGo's machine.I2C, so
// the same drivers run on a Linux host and on a microcontroller.
func NewConn(bus drivers.I2C, addr uint16) Conn {
	return &busConn{bus: bus, addr: addr}
}

type busConn struct {
	bus  drivers.I2C
	addr uint16
}

func (c *busConn) Write(w []byte) error {
	return c.bus.Tx(c.addr, w, nil)
}

func (c *busConn) Read(r []byte) error {
	return c.bus.Tx(c.addr, nil, r)
}

func (c *busConn) WriteRead(w, r []byte) error {
	return c.bus.Tx(c.addr, w, r)
}

func (c *busConn) String() string {
	if s, ok := c.bus.(fmt.Stringer); ok {
		return fmt.Sprintf("%s(%#x)", s, c.addr)
	}
	return fmt.Sprintf("i2c(%#x)", c.addr)
}
