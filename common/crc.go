// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, a CRC8 calculation
package common

import "github.com/sigurn/crc8"

// Sensirion parts protect every 16 bit word with CRC-8, polynomial 0x31,
// initial value 0xff, no reflection and no final xor.
var sensirionTable = crc8.MakeTable(crc8.Params{
	Poly:   0x31,
	Init:   0xff,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
	Check:  0xf7,
	Name:   "CRC-8/Sensirion",
})

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. CRC bytes are used in sensors from TI and Sensirion.
func CRC8(bytes []byte) byte {
	return crc8.Checksum(bytes, sensirionTable)
}
