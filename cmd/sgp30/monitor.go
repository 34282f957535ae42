// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/GermanBionicSystems/airquality/sgp30"
)

// monitor drives one sensor: it initializes it, restores and persists the
// baseline, and feeds every reading into the metrics.
type monitor struct {
	dev     *sgp30.Dev
	serial  sgp30.Serial
	store   *baselineStore
	metrics *metrics
	log     log.FieldLogger
	raw     bool
}

// start initializes the air quality measurement, restores a stored baseline
// and sets the humidity compensation. h may be nil.
func (m *monitor) start(h *sgp30.Humidity) error {
	if err := m.dev.Init(); err != nil {
		m.metrics.countError(err)
		return errors.Wrap(err, "init")
	}
	if m.store != nil {
		b, ok, err := m.store.load(m.serial)
		switch {
		case err != nil:
			m.log.Warnf("ignoring stored baseline: %s", err)
		case ok:
			if err := m.dev.SetBaseline(b); err != nil {
				m.metrics.countError(err)
				return errors.Wrap(err, "restoring baseline")
			}
			m.log.WithFields(log.Fields{"co2eq": b.CO2eq, "tvoc": b.TVOC}).Info("baseline restored")
		default:
			m.log.Info("no usable baseline stored, the sensor needs 12h to calibrate")
		}
	}
	if err := m.dev.SetHumidity(h); err != nil {
		m.metrics.countError(err)
		return errors.Wrap(err, "setting humidity")
	}
	if h != nil {
		m.log.Infof("humidity compensation set to %s", h)
	}
	return nil
}

// sample takes one measurement and publishes it.
func (m *monitor) sample() error {
	v, err := m.dev.Measure()
	if err != nil {
		m.metrics.countError(err)
		return errors.Wrap(err, "measure")
	}
	m.metrics.co2eq.Set(float64(v.CO2eq))
	m.metrics.tvoc.Set(float64(v.TVOC))
	m.log.Debug(v)

	if m.raw {
		s, err := m.dev.MeasureRawSignals()
		if err != nil {
			m.metrics.countError(err)
			return errors.Wrap(err, "measure raw signals")
		}
		m.metrics.h2.Set(float64(s.H2))
		m.metrics.ethanol.Set(float64(s.Ethanol))
	}
	return nil
}

// persist reads the current baseline, publishes it and stores it.
func (m *monitor) persist() error {
	b, err := m.dev.GetBaseline()
	if err != nil {
		m.metrics.countError(err)
		return errors.Wrap(err, "get baseline")
	}
	m.metrics.baselineCO2eq.Set(float64(b.CO2eq))
	m.metrics.baselineTVOC.Set(float64(b.TVOC))
	if m.store == nil {
		return nil
	}
	if err := m.store.save(m.serial, b); err != nil {
		return err
	}
	m.log.WithFields(log.Fields{"co2eq": b.CO2eq, "tvoc": b.TVOC}).Debug("baseline saved")
	return nil
}

// run samples every interval until ctx is done or samples readings were
// taken, samples <= 0 meaning forever. The baseline is persisted every
// persistEvery and once more on the way out.
func (m *monitor) run(ctx context.Context, interval, persistEvery time.Duration, samples int) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	persistTick := time.NewTicker(persistEvery)
	defer persistTick.Stop()
	defer func() {
		if err := m.persist(); err != nil {
			m.log.Errorf("failed to persist baseline: %s", err)
		}
	}()

	for n := 0; samples <= 0 || n < samples; {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			n++
			if err := m.sample(); err != nil {
				m.log.Errorf("failed to read sensor: %s", err)
			}
		case <-persistTick.C:
			if err := m.persist(); err != nil {
				m.log.Errorf("failed to persist baseline: %s", err)
			}
		}
	}
	return nil
}
