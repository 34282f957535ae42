// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import "errors"

var (
	// ErrWrite wraps a bus error that occurred while sending a command.
	ErrWrite = errors.New("sgp30: i2c write failed")
	// ErrRead wraps a bus error that occurred while reading a response.
	ErrRead = errors.New("sgp30: i2c read failed")
	// ErrCRC is returned when a response word does not match its CRC.
	ErrCRC = errors.New("sgp30: crc mismatch")
	// ErrNotInitialized is returned by the commands that require Init to
	// have been called first. The bus is not touched.
	ErrNotInitialized = errors.New("sgp30: air quality measurement not initialized")
	// ErrDataLength is returned when command data is not 2 or 4 bytes long.
	ErrDataLength = errors.New("sgp30: command data must be 2 or 4 bytes")
	// ErrReleased is returned when the bus was handed back with Release.
	ErrReleased = errors.New("sgp30: device released")

	ErrHumidityZero  = errors.New("sgp30: humidity must not be zero")
	ErrHumidityRange = errors.New("sgp30: humidity out of range [0, 256) g/m³")
)
