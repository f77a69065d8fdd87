// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the pieces shared by the sensor drivers: the CRC8
// used to validate response frames and the Conn transport the drivers talk
// through.
package common

import (
	"errors"
	"fmt"
)

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. Polynomial 0x31, initial value 0xff, no reflection and no
// final XOR. Bytes are folded in the order they were received. This is the
// CRC used by Aosong and Sensirion sensors.
func CRC8(bytes []byte) byte {
	var crc byte = 0xff
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x31)
			}
		}
	}
	return crc
}

// ChecksumError is returned when a response frame fails CRC validation.
//
// Expected is the CRC byte carried by the frame, Actual is the CRC computed
// over the frame's payload.
type ChecksumError struct {
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("crc mismatch: frame carries 0x%02x, computed 0x%02x", e.Expected, e.Actual)
}

var errShortFrame = errors.New("frame too short to carry a crc")

// CheckCRC8 validates a response frame whose last byte is the CRC8 of all the
// bytes before it. It returns a *ChecksumError on mismatch.
func CheckCRC8(frame []byte) error {
	if len(frame) < 2 {
		return errShortFrame
	}
	n := len(frame) - 1
	if crc := CRC8(frame[:n]); crc != frame[n] {
		return &ChecksumError{Expected: frame[n], Actual: crc}
	}
	return nil
}
