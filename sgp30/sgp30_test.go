// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr = uint16(DefaultAddress)

var opInit = i2ctest.IO{Addr: addr, W: []byte{0x20, 0x03}}

// recorder is a Delayer that remembers what it was asked to wait.
type recorder struct {
	waits []time.Duration
}

func (r *recorder) Delay(d time.Duration) {
	r.waits = append(r.waits, d)
}

func getDev(t *testing.T, ops ...i2ctest.IO) (*Dev, *i2ctest.Playback, *recorder) {
	t.Helper()
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	rec := &recorder{}
	dev, err := New(pb, DefaultAddress, rec)
	if err != nil {
		t.Fatal(err)
	}
	return dev, pb, rec
}

// done verifies every scripted operation was consumed.
func done(t *testing.T, pb *i2ctest.Playback) {
	t.Helper()
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
}

func checkWaits(t *testing.T, rec *recorder, want ...time.Duration) {
	t.Helper()
	if len(rec.waits) != len(want) {
		t.Fatalf("waits=%v expected %v", rec.waits, want)
	}
	for ix := range want {
		if rec.waits[ix] != want[ix] {
			t.Errorf("wait #%d=%s expected %s", ix, rec.waits[ix], want[ix])
		}
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, DefaultAddress, nil); err == nil {
		t.Error("expected error for nil bus")
	}
	dev, err := New(&i2ctest.Playback{DontPanic: true}, DefaultAddress, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dev.delay == nil {
		t.Error("default delay not set")
	}
	if dev.Initialized() {
		t.Error("new device reports initialized")
	}
	if len(dev.String()) == 0 {
		t.Error("string returned empty")
	}
}

func TestSerialNumber(t *testing.T) {
	dev, pb, rec := getDev(t,
		i2ctest.IO{Addr: addr, W: []byte{0x36, 0x82}},
		i2ctest.IO{Addr: addr, R: []byte{0, 0, 129, 0, 100, 254, 204, 130, 135}},
	)
	sn, err := dev.SerialNumber()
	if err != nil {
		t.Fatal(err)
	}
	if want := (Serial{0, 0, 0, 100, 204, 130}); sn != want {
		t.Errorf("serial=%v expected %v", sn, want)
	}
	if sn.Uint64() != 0x64cc82 {
		t.Errorf("serial=0x%x expected 0x64cc82", sn.Uint64())
	}
	if s := sn.String(); s != "00000064cc82" {
		t.Errorf("serial string=%q", s)
	}
	checkWaits(t, rec, 500*time.Microsecond)
	done(t, pb)
}

func TestSelfTest(t *testing.T) {
	var tests = []struct {
		name string
		r    []byte
		pass bool
	}{
		{name: "pass", r: []byte{0xd4, 0x00, 0xc6}, pass: true},
		{name: "fail", r: []byte{0x12, 0x34, 0x37}, pass: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dev, pb, rec := getDev(t,
				i2ctest.IO{Addr: addr, W: []byte{0x20, 0x32}},
				i2ctest.IO{Addr: addr, R: test.r},
			)
			pass, err := dev.SelfTest()
			if err != nil {
				t.Fatal(err)
			}
			if pass != test.pass {
				t.Errorf("self test=%t expected %t", pass, test.pass)
			}
			checkWaits(t, rec, 220*time.Millisecond)
			done(t, pb)
		})
	}
}

func TestInit(t *testing.T) {
	dev, pb, rec := getDev(t, opInit, opInit)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	if !dev.Initialized() {
		t.Error("not initialized after Init")
	}
	// Second Init is a no-op, ForceInit sends the command again.
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	if err := dev.ForceInit(); err != nil {
		t.Fatal(err)
	}
	checkWaits(t, rec, 10*time.Millisecond, 10*time.Millisecond)
	done(t, pb)
}

func TestInitWriteError(t *testing.T) {
	// An empty playback fails every Tx.
	dev, _, rec := getDev(t)
	err := dev.Init()
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if dev.Initialized() {
		t.Error("initialized after failed Init")
	}
	checkWaits(t, rec)
}

func TestNotInitialized(t *testing.T) {
	h, _ := NewHumidity(1, 0)
	var tests = []struct {
		name string
		f    func(d *Dev) error
	}{
		{"Measure", func(d *Dev) error { _, err := d.Measure(); return err }},
		{"MeasureRawSignals", func(d *Dev) error { _, err := d.MeasureRawSignals(); return err }},
		{"SetBaseline", func(d *Dev) error { return d.SetBaseline(Baseline{CO2eq: 1, TVOC: 2}) }},
		{"SetHumidity", func(d *Dev) error { return d.SetHumidity(&h) }},
		{"SetHumidityNil", func(d *Dev) error { return d.SetHumidity(nil) }},
		{"SetTVOCBaseline", func(d *Dev) error { return d.SetTVOCBaseline(3) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dev, pb, rec := getDev(t)
			if err := test.f(dev); !errors.Is(err, ErrNotInitialized) {
				t.Fatalf("expected ErrNotInitialized, got %v", err)
			}
			if pb.Count != 0 {
				t.Errorf("bus used %d times", pb.Count)
			}
			checkWaits(t, rec)
		})
	}
}

func TestMeasure(t *testing.T) {
	dev, pb, rec := getDev(t,
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x08}},
		i2ctest.IO{Addr: addr, R: []byte{0x12, 0x34, 0x37, 0xd4, 0x02, 0xa4}},
	)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	m, err := dev.Measure()
	if err != nil {
		t.Fatal(err)
	}
	if m.CO2eq != 4660 || m.TVOC != 54274 {
		t.Errorf("measurement=%s expected CO2eq 4660ppm TVOC 54274ppb", m)
	}
	if s := m.String(); s != "CO2eq: 4660ppm TVOC: 54274ppb" {
		t.Errorf("measurement string=%q", s)
	}
	checkWaits(t, rec, 10*time.Millisecond, 12*time.Millisecond)
	done(t, pb)
}

func TestMeasureCRCError(t *testing.T) {
	dev, pb, _ := getDev(t,
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x08}},
		i2ctest.IO{Addr: addr, R: []byte{0x12, 0x34, 0x37, 0xd4, 0x02, 0xa5}},
	)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	m, err := dev.Measure()
	if !errors.Is(err, ErrCRC) {
		t.Fatalf("expected ErrCRC, got %v", err)
	}
	if errors.Is(err, ErrRead) || errors.Is(err, ErrWrite) {
		t.Errorf("crc error reported as transport error: %v", err)
	}
	if m != (Measurement{}) {
		t.Errorf("partial measurement returned %s", m)
	}
	done(t, pb)
}

func TestMeasureReadError(t *testing.T) {
	dev, _, _ := getDev(t,
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x08}},
		// Wrong length makes the playback fail the read.
		i2ctest.IO{Addr: addr, R: []byte{0x12, 0x34, 0x37}},
	)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.Measure(); !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}

func TestMeasureRawSignals(t *testing.T) {
	dev, pb, rec := getDev(t,
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x50}},
		i2ctest.IO{Addr: addr, R: []byte{0x12, 0x34, 0x37, 0x56, 0x78, 0x7d}},
	)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	s, err := dev.MeasureRawSignals()
	if err != nil {
		t.Fatal(err)
	}
	if s.H2 != 0x1234 || s.Ethanol != 0x5678 {
		t.Errorf("signals=%+v", s)
	}
	checkWaits(t, rec, 10*time.Millisecond, 25*time.Millisecond)
	done(t, pb)
}

func TestGetBaseline(t *testing.T) {
	// No Init needed.
	dev, pb, rec := getDev(t,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x15}},
		i2ctest.IO{Addr: addr, R: []byte{0x12, 0x34, 0x37, 0xd4, 0x02, 0xa4}},
	)
	b, err := dev.GetBaseline()
	if err != nil {
		t.Fatal(err)
	}
	if b.CO2eq != 4660 || b.TVOC != 54274 {
		t.Errorf("baseline=%+v", b)
	}
	checkWaits(t, rec, 10*time.Millisecond)
	done(t, pb)
}

func TestSetBaseline(t *testing.T) {
	dev, pb, rec := getDev(t,
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x1e, 0x56, 0x78, 0x7d, 0x12, 0x34, 0x37}},
	)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	if err := dev.SetBaseline(Baseline{CO2eq: 0x1234, TVOC: 0x5678}); err != nil {
		t.Fatal(err)
	}
	checkWaits(t, rec, 10*time.Millisecond, 10*time.Millisecond)
	done(t, pb)
}

func TestSetHumidity(t *testing.T) {
	h, err := HumidityFromFloat(15.5)
	if err != nil {
		t.Fatal(err)
	}
	dev, pb, rec := getDev(t,
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x61, 0x0f, 0x80, 0x62}},
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x61, 0x00, 0x00, 0x81}},
	)
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	if err := dev.SetHumidity(&h); err != nil {
		t.Fatal(err)
	}
	if err := dev.SetHumidity(nil); err != nil {
		t.Fatal(err)
	}
	checkWaits(t, rec, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond)
	done(t, pb)
}

func TestGetFeatureSet(t *testing.T) {
	dev, pb, rec := getDev(t,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x2f}},
		i2ctest.IO{Addr: addr, R: []byte{0x00, 0x42, 0xde}},
	)
	fs, err := dev.GetFeatureSet()
	if err != nil {
		t.Fatal(err)
	}
	if fs.ProductType != ProductSGP30 || fs.ProductVersion != 0x42 {
		t.Errorf("feature set=%s", fs)
	}
	checkWaits(t, rec, 2*time.Millisecond)
	done(t, pb)
}

func TestTVOCBaseline(t *testing.T) {
	dev, pb, rec := getDev(t,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0xb3}},
		i2ctest.IO{Addr: addr, R: []byte{0x91, 0x07, 0xaf}},
		opInit,
		i2ctest.IO{Addr: addr, W: []byte{0x20, 0x77, 0x91, 0x07, 0xaf}},
	)
	tvoc, err := dev.GetTVOCInceptiveBaseline()
	if err != nil {
		t.Fatal(err)
	}
	if tvoc != 0x9107 {
		t.Errorf("tvoc baseline=0x%x expected 0x9107", tvoc)
	}
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	if err := dev.SetTVOCBaseline(tvoc); err != nil {
		t.Fatal(err)
	}
	checkWaits(t, rec, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond)
	done(t, pb)
}

func TestRelease(t *testing.T) {
	dev, pb, _ := getDev(t)
	if b := dev.Release(); b != pb {
		t.Errorf("Release returned %v expected the playback bus", b)
	}
	if b := dev.Release(); b != nil {
		t.Errorf("second Release returned %v", b)
	}
	if _, err := dev.GetBaseline(); !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
	if pb.Count != 0 {
		t.Errorf("bus used %d times after release", pb.Count)
	}
}
