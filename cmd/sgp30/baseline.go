// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/GermanBionicSystems/airquality/sgp30"
)

// savedBaseline is the on-disk form of a sensor baseline.
type savedBaseline struct {
	Serial string    `json:"serial"`
	CO2eq  uint16    `json:"co2eq"`
	TVOC   uint16    `json:"tvoc"`
	Saved  time.Time `json:"saved"`
}

// baselineStore keeps the last baseline of one sensor in a JSON file.
type baselineStore struct {
	path   string
	maxAge time.Duration
	now    func() time.Time
}

// load returns the stored baseline. ok is false when there is nothing
// usable: no file, another sensor, or older than maxAge. The datasheet only
// allows restoring a baseline younger than a week.
func (s *baselineStore) load(serial sgp30.Serial) (b sgp30.Baseline, ok bool, err error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return b, false, nil
	}
	if err != nil {
		return b, false, errors.Wrap(err, "reading baseline")
	}
	var saved savedBaseline
	if err := json.Unmarshal(raw, &saved); err != nil {
		return b, false, errors.Wrapf(err, "parsing baseline %s", s.path)
	}
	if saved.Serial != serial.String() {
		return b, false, nil
	}
	if s.now().Sub(saved.Saved) > s.maxAge {
		return b, false, nil
	}
	return sgp30.Baseline{CO2eq: saved.CO2eq, TVOC: saved.TVOC}, true, nil
}

// save writes b atomically.
func (s *baselineStore) save(serial sgp30.Serial, b sgp30.Baseline) error {
	raw, err := json.Marshal(savedBaseline{
		Serial: serial.String(),
		CO2eq:  b.CO2eq,
		TVOC:   b.TVOC,
		Saved:  s.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "encoding baseline")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".baseline-*")
	if err != nil {
		return errors.Wrap(err, "saving baseline")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "saving baseline")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "saving baseline")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "saving baseline")
}
