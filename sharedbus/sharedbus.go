// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sharedbus lets several drivers use one physical I²C bus, one
// transaction at a time.
//
// A Handle is acquired right before a driver operation and released right
// after it. While a Handle is outstanding no other Handle can be acquired.
package sharedbus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrBusy is returned by Acquire while another Handle is outstanding.
	ErrBusy = errors.New("sharedbus: bus is held by another handle")
	// ErrReleased is returned by a Handle used after Release.
	ErrReleased = errors.New("sharedbus: handle used after release")
)

// Manager arbitrates access to a bus.
type Manager struct {
	bus i2c.Bus

	mu   sync.Mutex
	held *Handle
	n    int
}

// New returns a Manager for b.
func New(b i2c.Bus) *Manager {
	return &Manager{bus: b}
}

// Acquire returns a Handle with exclusive use of the bus until Release.
func (m *Manager) Acquire() (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held != nil {
		return nil, ErrBusy
	}
	m.n++
	m.held = &Handle{m: m, id: m.n}
	return m.held, nil
}

func (m *Manager) String() string {
	return fmt.Sprintf("sharedbus(%s)", m.bus)
}

// Handle is a transaction handle on the shared bus. It implements i2c.Bus,
// so it can be handed to any periph or TinyGo driver.
type Handle struct {
	m  *Manager
	id int
}

// Tx implements i2c.Bus.
func (h *Handle) Tx(addr uint16, w, r []byte) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.held != h {
		return ErrReleased
	}
	return h.m.bus.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
func (h *Handle) SetSpeed(f physic.Frequency) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.held != h {
		return ErrReleased
	}
	return h.m.bus.SetSpeed(f)
}

// Release gives the bus back to the Manager. Calling it more than once is a
// noop.
func (h *Handle) Release() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.held == h {
		h.m.held = nil
	}
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s#%d", h.m.bus, h.id)
}

// Transient returns a bus that acquires a Handle for each transaction and
// releases it right after. It suits devices that are driven between sensor
// operations, like a display. Tx fails with ErrBusy while a Handle is out.
func (m *Manager) Transient() *Transient {
	return &Transient{m: m}
}

// Transient is an i2c.Bus backed by short lived Handles.
type Transient struct {
	m *Manager
}

// Tx implements i2c.Bus.
func (t *Transient) Tx(addr uint16, w, r []byte) error {
	h, err := t.m.Acquire()
	if err != nil {
		return err
	}
	defer h.Release()
	return h.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
func (t *Transient) SetSpeed(f physic.Frequency) error {
	h, err := t.m.Acquire()
	if err != nil {
		return err
	}
	defer h.Release()
	return h.SetSpeed(f)
}

func (t *Transient) String() string {
	return fmt.Sprintf("%s*", t.m.bus)
}

var _ i2c.Bus = &Handle{}
var _ i2c.Bus = &Transient{}
