// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"encoding/binary"
	"fmt"

	"github.com/GermanBionicSystems/airquality/common"
)

// Encode returns the command word followed by data, with the CRC of each 2
// byte data word inserted right after it. data must be nil or hold exactly 2
// or 4 bytes.
func (c Command) Encode(data []byte) ([]byte, error) {
	cmd := c.Bytes()
	switch len(data) {
	case 0:
		return cmd[:], nil
	case 2, 4:
	default:
		return nil, fmt.Errorf("sgp30 cmd %s: %w: got %d bytes", c, ErrDataLength, len(data))
	}
	w := make([]byte, 2, 2+len(data)/2*3)
	copy(w, cmd[:])
	for ix := 0; ix < len(data); ix += 2 {
		w = append(w, data[ix], data[ix+1], common.CRC8(data[ix:ix+2]))
	}
	return w, nil
}

// encodeWords packs the 16 bit values big endian, ready for Encode.
func encodeWords(words ...uint16) []byte {
	b := make([]byte, len(words)*2)
	for ix, word := range words {
		binary.BigEndian.PutUint16(b[ix*2:], word)
	}
	return b
}

// decodeWords converts a response into 16 bit words, verifying the CRC
// trailing each of them. An incomplete group at the end of b is ignored.
func decodeWords(b []byte) ([]uint16, error) {
	words := make([]uint16, len(b)/3)
	for ix := range words {
		group := b[ix*3 : ix*3+3]
		if crc := common.CRC8(group[:2]); crc != group[2] {
			return nil, fmt.Errorf("%w: word %d is 0x%02x%02x, crc 0x%02x, expected 0x%02x", ErrCRC, ix, group[0], group[1], group[2], crc)
		}
		words[ix] = binary.BigEndian.Uint16(group)
	}
	return words, nil
}
