// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airsense is a container for the drivers and tools of an air
// quality monitor built on an AGS02MA gas sensor and an AHT20 humidity and
// temperature sensor sharing one I²C bus.
//
// The drivers live in ags02ma and aht20, the CRC8 and the bus transport they
// share in common. The monitor itself is cmd/airsense.
package airsense
