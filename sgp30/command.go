// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"fmt"
	"time"
)

// Command is a 16 bit command word understood by the SGP30.
type Command uint16

const (
	GetSerial                Command = 0x3682
	SelfTest                 Command = 0x2032
	InitAirQuality           Command = 0x2003
	MeasureAirQuality        Command = 0x2008
	MeasureRawSignals        Command = 0x2050
	GetBaseline              Command = 0x2015
	SetBaseline              Command = 0x201e
	SetHumidity              Command = 0x2061
	GetFeatureSet            Command = 0x202f
	GetTVOCInceptiveBaseline Command = 0x20b3
	SetTVOCBaseline          Command = 0x2077
)

// commandDuration maps the defined maximum measurement duration from the sensor
var commandDuration = map[Command]time.Duration{
	GetSerial:                500 * time.Microsecond,
	SelfTest:                 220 * time.Millisecond,
	InitAirQuality:           10 * time.Millisecond,
	MeasureAirQuality:        12 * time.Millisecond,
	MeasureRawSignals:        25 * time.Millisecond,
	GetBaseline:              10 * time.Millisecond,
	SetBaseline:              10 * time.Millisecond,
	SetHumidity:              10 * time.Millisecond,
	GetFeatureSet:            2 * time.Millisecond,
	GetTVOCInceptiveBaseline: 10 * time.Millisecond,
	SetTVOCBaseline:          10 * time.Millisecond,
}

// commandResponseLength maps the defined response length including the CRC.
// Commands not listed return nothing.
var commandResponseLength = map[Command]int{
	GetSerial:                9,
	SelfTest:                 3,
	MeasureAirQuality:        6,
	MeasureRawSignals:        6,
	GetBaseline:              6,
	GetFeatureSet:            3,
	GetTVOCInceptiveBaseline: 3,
}

var commandNames = map[Command]string{
	GetSerial:                "GetSerial",
	SelfTest:                 "SelfTest",
	InitAirQuality:           "InitAirQuality",
	MeasureAirQuality:        "MeasureAirQuality",
	MeasureRawSignals:        "MeasureRawSignals",
	GetBaseline:              "GetBaseline",
	SetBaseline:              "SetBaseline",
	SetHumidity:              "SetHumidity",
	GetFeatureSet:            "GetFeatureSet",
	GetTVOCInceptiveBaseline: "GetTVOCInceptiveBaseline",
	SetTVOCBaseline:          "SetTVOCBaseline",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(0x%04x)", uint16(c))
}

// Bytes returns the command word as it is sent on the wire, most significant
// byte first.
func (c Command) Bytes() [2]byte {
	return [2]byte{byte(c >> 8), byte(c)}
}

// Duration returns the time the sensor needs to execute the command before
// its response may be read.
func (c Command) Duration() time.Duration {
	return commandDuration[c]
}

// ResponseLength returns the number of bytes, CRCs included, the sensor
// returns for the command.
func (c Command) ResponseLength() int {
	return commandResponseLength[c]
}
