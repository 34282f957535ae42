// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sgp30 provides a driver for the Sensirion SGP30 gas sensor.
//
// The SGP30 reports two air quality signals, a CO2 equivalent in ppm and
// total volatile organic compounds (TVOC) in ppb, plus the raw H2 and ethanol
// signals they are derived from. Every command is a 16 bit word written to
// the device, followed by a fixed wait and, for most commands, a read of one
// or more 16 bit words each protected by a CRC8.
//
// # Usage
//
// Call Init once after power-up, then Measure once per second. The dynamic
// baseline compensation on the chip depends on that cadence and the driver
// does not schedule it for you. For the first 15 seconds after Init the
// sensor returns fixed values of 400 ppm CO2eq and 0 ppb TVOC.
//
// The baseline of the compensation algorithm can be read with GetBaseline,
// stored by the caller and restored after the next power-up with Init
// followed by SetBaseline.
//
// A new Init is required after every power-up or soft reset of the chip. The
// driver cannot detect that; call ForceInit when it happened.
//
// # Datasheet
//
// https://sensirion.com/media/documents/984E0DD5/61644B8B/Sensirion_Gas_Sensors_Datasheet_SGP30.pdf
package sgp30
