// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ags02ma controls an Aosong AGS02MA gas sensor over I²C.
//
// The sensor reports a TVOC concentration in ppb and the raw resistance of
// its MEMS gas element. Every reading takes the sensor about 1.5s; the driver
// does not poll for readiness, it waits the full settle time and then reads a
// 5 byte frame protected by a CRC8.
//
// The sensor requires a slow bus clock (30kHz or less).
//
// A Dev is meant to live for one operation: build it from a bus handle and a
// lent delay, call ReadTVOC or ReadGasResistance, then drop it.
//
// # Datasheet
//
// http://www.aosong.com/userfiles/files/media/AGS02MA%20English%20Datasheet.pdf
package ags02ma
