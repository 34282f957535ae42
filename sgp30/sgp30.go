// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the only address the SGP30 responds on.
const DefaultAddress i2c.Addr = 0x58

// The fixed data pattern returned when the on-chip self-test is successful.
var selfTestPass = [2]byte{0xd4, 0x00}

// Dev is a handle to an SGP30 gas sensor.
//
// Each method holds the device for the whole command, write, wait and read,
// so a Dev may be shared between goroutines.
type Dev struct {
	d     *i2c.Dev
	delay Delayer

	mu sync.Mutex
	// True once InitAirQuality was sent successfully. Never cleared, the
	// sensor losing power is invisible to the driver.
	initialized bool
}

// New returns a driver for an SGP30 on bus b at addr, normally
// DefaultAddress. If delay is nil, Sleep is used.
//
// No command is sent. Call Init before measuring.
func New(b i2c.Bus, addr i2c.Addr, delay Delayer) (*Dev, error) {
	if b == nil {
		return nil, errors.New("sgp30: nil bus")
	}
	if delay == nil {
		delay = Sleep
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: uint16(addr)}, delay: delay}, nil
}

// Release gives the bus back to the caller. Any later call on d fails with
// ErrReleased.
func (d *Dev) Release() i2c.Bus {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.d == nil {
		return nil
	}
	b := d.d.Bus
	d.d = nil
	return b
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.d == nil {
		return "sgp30: released"
	}
	return fmt.Sprintf("sgp30: %s", d.d.String())
}

// Initialized reports whether Init or ForceInit succeeded on this handle.
func (d *Dev) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// SerialNumber returns the 48 bit serial number of the sensor.
func (d *Dev) SerialNumber() (Serial, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var s Serial
	words, err := d.sendCommand(GetSerial, nil)
	if err != nil {
		return s, err
	}
	for ix, word := range words {
		s[ix*2] = byte(word >> 8)
		s[ix*2+1] = byte(word)
	}
	return s, nil
}

// SelfTest runs the on-chip self test and reports whether it passed. The
// test takes 220ms. Don't run it between Init and Measure, the datasheet
// warns it disturbs the baseline compensation.
func (d *Dev) SelfTest() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	words, err := d.sendCommand(SelfTest, nil)
	if err != nil {
		return false, err
	}
	return [2]byte{byte(words[0] >> 8), byte(words[0])} == selfTestPass, nil
}

// Init starts the air quality measurement. It does nothing if this handle
// already initialized the sensor.
//
// After Init, Measure must be called once per second for the baseline
// compensation to work. That is up to the caller.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}
	return d.initAirQuality()
}

// ForceInit is Init without the check for a previous initialization. Use it
// after the sensor was power cycled or soft reset.
func (d *Dev) ForceInit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initAirQuality()
}

func (d *Dev) initAirQuality() error {
	if _, err := d.sendCommand(InitAirQuality, nil); err != nil {
		return err
	}
	d.initialized = true
	return nil
}

// Measure returns the current CO2 equivalent and TVOC values.
func (d *Dev) Measure() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return Measurement{}, ErrNotInitialized
	}
	words, err := d.sendCommand(MeasureAirQuality, nil)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{CO2eq: CO2(words[0]), TVOC: TVOC(words[1])}, nil
}

// MeasureRawSignals returns the H2 and ethanol signals. Intended for part
// verification and testing.
func (d *Dev) MeasureRawSignals() (RawSignals, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return RawSignals{}, ErrNotInitialized
	}
	words, err := d.sendCommand(MeasureRawSignals, nil)
	if err != nil {
		return RawSignals{}, err
	}
	return RawSignals{H2: words[0], Ethanol: words[1]}, nil
}

// GetBaseline returns the baseline of the compensation algorithm.
func (d *Dev) GetBaseline() (Baseline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	words, err := d.sendCommand(GetBaseline, nil)
	if err != nil {
		return Baseline{}, err
	}
	return Baseline{CO2eq: words[0], TVOC: words[1]}, nil
}

// SetBaseline restores a baseline previously returned by GetBaseline. Call it
// right after Init.
func (d *Dev) SetBaseline(b Baseline) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotInitialized
	}
	// The sensor expects the words in the opposite order they are read in.
	_, err := d.sendCommand(SetBaseline, encodeWords(b.TVOC, b.CO2eq))
	return err
}

// SetHumidity sets the absolute humidity used by the on-chip compensation. A
// nil h restores the sensor default of 11.57 g/m³.
func (d *Dev) SetHumidity(h *Humidity) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotInitialized
	}
	var data [2]byte
	if h != nil {
		data = h.Bytes()
	}
	_, err := d.sendCommand(SetHumidity, data[:])
	return err
}

// GetFeatureSet returns the product type and feature set version.
func (d *Dev) GetFeatureSet() (FeatureSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	words, err := d.sendCommand(GetFeatureSet, nil)
	if err != nil {
		return FeatureSet{}, err
	}
	return ParseFeatureSet(byte(words[0]>>8), byte(words[0])), nil
}

// GetTVOCInceptiveBaseline returns the TVOC baseline the sensor ships with.
// It can seed SetTVOCBaseline on first start when no stored baseline exists.
func (d *Dev) GetTVOCInceptiveBaseline() (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	words, err := d.sendCommand(GetTVOCInceptiveBaseline, nil)
	if err != nil {
		return 0, err
	}
	return words[0], nil
}

// SetTVOCBaseline sets only the TVOC baseline.
func (d *Dev) SetTVOCBaseline(tvoc uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return ErrNotInitialized
	}
	_, err := d.sendCommand(SetTVOCBaseline, encodeWords(tvoc))
	return err
}

// All commands go through this function: write the command and its data,
// wait the time the datasheet gives for it, then read and verify the
// response if the command has one.
//
// d.mu must be held.
func (d *Dev) sendCommand(cmd Command, data []byte) ([]uint16, error) {
	if d.d == nil {
		return nil, ErrReleased
	}
	w, err := cmd.Encode(data)
	if err != nil {
		return nil, err
	}
	if err := d.d.Tx(w, nil); err != nil {
		return nil, fmt.Errorf("sgp30 cmd %s: %w: %w", cmd, ErrWrite, err)
	}
	d.delay.Delay(cmd.Duration())

	n := cmd.ResponseLength()
	if n == 0 {
		return nil, nil
	}
	r := make([]byte, n)
	if err := d.d.Tx(nil, r); err != nil {
		return nil, fmt.Errorf("sgp30 cmd %s: %w: %w", cmd, ErrRead, err)
	}
	words, err := decodeWords(r)
	if err != nil {
		return nil, fmt.Errorf("sgp30 cmd %s: %w", cmd, err)
	}
	return words, nil
}
