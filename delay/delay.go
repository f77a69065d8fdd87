// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package delay shares one blocking delay source between drivers.
//
// A Timer owns the clock. Drivers never get the Timer itself: the caller
// lends it out for the span of one operation and takes it back afterwards.
//
//	s, err := t.Lend()
//	if err != nil {
//		return err
//	}
//	defer s.Release()
//	v, err := ags02ma.New(conn, s).ReadTVOC()
//
// Only one Share can be outstanding at a time, so two drivers can never
// block on the same timer concurrently.
package delay

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Delayer blocks the caller for a duration.
type Delayer interface {
	Delay(d time.Duration)
}

// ErrLent is returned by Lend when a Share is already outstanding.
var ErrLent = errors.New("delay: timer is already lent")

// Timer owns a clock and lends it to one borrower at a time.
type Timer struct {
	clock clockwork.Clock

	mu   sync.Mutex
	lent *Share
}

// New returns a Timer backed by the wall clock.
func New() *Timer {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock returns a Timer backed by c.
func NewWithClock(c clockwork.Clock) *Timer {
	return &Timer{clock: c}
}

// Lend hands out the Timer's only Share. The Share must be released before
// the Timer can be lent again or used directly.
func (t *Timer) Lend() (*Share, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lent != nil {
		return nil, ErrLent
	}
	t.lent = &Share{t: t}
	return t.lent, nil
}

// Delay blocks for d. It panics while a Share is outstanding.
func (t *Timer) Delay(d time.Duration) {
	t.mu.Lock()
	lent := t.lent != nil
	t.mu.Unlock()
	if lent {
		panic("delay: Timer used while lent")
	}
	t.clock.Sleep(d)
}

// Lent reports whether a Share is outstanding.
func (t *Timer) Lent() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lent != nil
}

func (t *Timer) String() string {
	return "delay.Timer"
}

// Share is a borrowed view of a Timer, valid until Release.
type Share struct {
	t *Timer
}

// Delay blocks for d. It panics once the Share has been released.
func (s *Share) Delay(d time.Duration) {
	s.t.mu.Lock()
	valid := s.t.lent == s
	s.t.mu.Unlock()
	if !valid {
		panic("delay: Share used after Release")
	}
	s.t.clock.Sleep(d)
}

// Release returns the Timer to its owner. Calling it more than once is a
// noop.
func (s *Share) Release() {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	if s.t.lent == s {
		s.t.lent = nil
	}
}

var _ Delayer = &Timer{}
var _ Delayer = &Share{}
