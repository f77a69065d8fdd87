// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aht20

import (
	"fmt"
	"time"
)

// UncalibratedError is returned when the sensor does not report the
// calibration bit where a calibrated sensor is expected.
type UncalibratedError struct{}

func (e *UncalibratedError) Error() string {
	return "aht20: sensor is not calibrated"
}

// TimeoutError is returned when the busy bit did not clear within
// Opts.BusyTimeout.
type TimeoutError struct {
	Op    string
	Polls int
	Wait  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("aht20: %s: still busy after %d status reads (%s)", e.Op, e.Polls, e.Wait)
}

// BusError wraps a failed bus transaction.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("aht20: %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
