// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package delaytest is meant to be used to test drivers without sleeping.
package delaytest

import (
	"sync"
	"time"

	"github.com/GermanBionicSystems/airsense/delay"
)

// Recorder implements delay.Delayer. It returns immediately and records
// every requested duration.
type Recorder struct {
	sync.Mutex
	Delays []time.Duration
}

// Delay implements delay.Delayer.
func (r *Recorder) Delay(d time.Duration) {
	r.Lock()
	defer r.Unlock()
	r.Delays = append(r.Delays, d)
}

// Total returns the sum of all recorded delays.
func (r *Recorder) Total() time.Duration {
	r.Lock()
	defer r.Unlock()
	var t time.Duration
	for _, d := range r.Delays {
		t += d
	}
	return t
}

var _ delay.Delayer = &Recorder{}
