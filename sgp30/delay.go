// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import "time"

// Delayer blocks for at least the given duration. The driver calls it between
// writing a command and reading the response.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(d time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// Sleep is the Delayer used when none is supplied.
var Sleep Delayer = DelayFunc(time.Sleep)
