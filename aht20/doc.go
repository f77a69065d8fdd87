// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package aht20 controls an AHT20 device over I²C.
// The sensor is a temperature and humidity sensor with a typical accuracy of ±2% RH and ±0.3°C.
//
// The driver keeps no state of its own. Every operation reads the live status
// byte of the sensor to decide whether it is busy or calibrated, so a Dev can
// be built for a single call and dropped afterwards.
//
// Some sensors lose the factory constants in registers 0x1B, 0x1C and 0x1E
// after a power cycle and then never report themselves calibrated.
// ResetCalibrationRegisters rewrites them; EnsureCalibrated runs the complete
// start-up routine.
//
// The status byte is read with the 0x71 command from the datasheet. Some
// firmware reads it with a bare 0x00 command instead.
//
// **Datasheet:** http://www.aosong.com/userfiles/files/media/Data%20Sheet%20AHT20.pdf
package aht20
