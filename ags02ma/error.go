// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ags02ma

// BusWriteError is returned when sending a command to the sensor failed.
type BusWriteError struct {
	Err error
}

func (e *BusWriteError) Error() string {
	return "ags02ma: error writing command: " + e.Err.Error()
}

func (e *BusWriteError) Unwrap() error {
	return e.Err
}

// BusReadError is returned when reading the response frame failed.
type BusReadError struct {
	Err error
}

func (e *BusReadError) Error() string {
	return "ags02ma: error reading response: " + e.Err.Error()
}

func (e *BusReadError) Unwrap() error {
	return e.Err
}
