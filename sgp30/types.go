// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"periph.io/x/conn/v3/physic"
)

// CO2 represents a carbon dioxide equivalent value in ppm
type CO2 uint16

func (c CO2) String() string {
	return strconv.Itoa(int(c)) + "ppm"
}

// TVOC represents a total volatile organic compounds value in ppb
type TVOC uint16

func (t TVOC) String() string {
	return strconv.Itoa(int(t)) + "ppb"
}

// Measurement is one air quality reading.
type Measurement struct {
	CO2eq CO2
	TVOC  TVOC
}

func (m Measurement) String() string {
	return fmt.Sprintf("CO2eq: %s TVOC: %s", m.CO2eq, m.TVOC)
}

// RawSignals are the H2 and ethanol sensor signals the air quality values are
// computed from. Both are unitless ticks.
type RawSignals struct {
	H2      uint16
	Ethanol uint16
}

// Baseline is the state of the baseline compensation algorithm. Store it and
// hand it back to SetBaseline after a power-up. The values are opaque.
type Baseline struct {
	CO2eq uint16
	TVOC  uint16
}

// Serial is the 48 bit unique serial number of the sensor.
type Serial [6]byte

// Uint64 returns the serial number as an integer.
func (s Serial) Uint64() uint64 {
	var v uint64
	for _, b := range s {
		v = v<<8 | uint64(b)
	}
	return v
}

func (s Serial) String() string {
	return hex.EncodeToString(s[:])
}

// Humidity is an absolute humidity in g/m³ as an 8.8 fixed point value, the
// format used by SetHumidity.
//
// The zero value turns the on-chip humidity compensation off and cannot be
// built with NewHumidity. To go back to the sensor default of 11.57 g/m³ pass
// nil to SetHumidity.
type Humidity struct {
	integer    uint8
	fractional uint8
}

// NewHumidity returns a Humidity of integer + fractional/256 g/m³.
func NewHumidity(integer, fractional uint8) (Humidity, error) {
	if integer == 0 && fractional == 0 {
		return Humidity{}, ErrHumidityZero
	}
	return Humidity{integer: integer, fractional: fractional}, nil
}

// HumidityFromFloat converts v g/m³ into the fixed point format, truncating
// to the nearest lower 1/256 step. v must be in [0, 256) and must not
// truncate to zero.
func HumidityFromFloat(v float64) (Humidity, error) {
	if math.IsNaN(v) || v < 0 || v >= 256 {
		return Humidity{}, fmt.Errorf("%w: %v", ErrHumidityRange, v)
	}
	integer := math.Trunc(v)
	fractional := (v - integer) * 256
	if fractional < 0 {
		fractional = 0
	} else if fractional > 255 {
		fractional = 255
	}
	return NewHumidity(uint8(integer), uint8(fractional))
}

// AbsoluteHumidity computes the absolute humidity from the temperature and
// relative humidity reported by a separate sensor, for example a SHT4x.
func AbsoluteHumidity(t physic.Temperature, rh physic.RelativeHumidity) (Humidity, error) {
	c := t.Celsius()
	r := float64(rh) / float64(physic.PercentRH)
	// Magnus formula as given in the Sensirion SGP30 driver integration note.
	ah := 216.7 * (r / 100 * 6.112 * math.Exp(17.62*c/(243.12+c))) / (273.15 + c)
	return HumidityFromFloat(ah)
}

// Bytes returns the value as sent to the sensor, integer part first.
func (h Humidity) Bytes() [2]byte {
	return [2]byte{h.integer, h.fractional}
}

// GramsPerCubicMeter returns the quantized value.
func (h Humidity) GramsPerCubicMeter() float64 {
	return float64(h.integer) + float64(h.fractional)/256
}

func (h Humidity) String() string {
	return strconv.FormatFloat(h.GramsPerCubicMeter(), 'f', -1, 64) + "g/m³"
}

// ProductType is the product family reported in the feature set.
type ProductType uint8

// ProductSGP30 is the only product type the SGP30 datasheet defines.
const ProductSGP30 ProductType = 0

// Known reports whether p is a product type this driver knows about.
func (p ProductType) Known() bool {
	return p == ProductSGP30
}

func (p ProductType) String() string {
	if p == ProductSGP30 {
		return "SGP30"
	}
	return fmt.Sprintf("unknown(0x%x)", uint8(p))
}

// FeatureSet identifies the product and the version of its measurement
// commands and on-chip algorithms.
type FeatureSet struct {
	ProductType    ProductType
	ProductVersion uint8
}

// ParseFeatureSet decodes the response word of GetFeatureSet. The product
// type is the upper nibble of msb, the version is lsb.
func ParseFeatureSet(msb, lsb byte) FeatureSet {
	return FeatureSet{
		ProductType:    ProductType(msb >> 4),
		ProductVersion: lsb,
	}
}

func (f FeatureSet) String() string {
	return fmt.Sprintf("%s version 0x%02x", f.ProductType, f.ProductVersion)
}
