// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GermanBionicSystems/airquality/sgp30"
)

// metrics exported for one sensor.
type metrics struct {
	co2eq         prometheus.Gauge
	tvoc          prometheus.Gauge
	h2            prometheus.Gauge
	ethanol       prometheus.Gauge
	baselineCO2eq prometheus.Gauge
	baselineTVOC  prometheus.Gauge
	errors        *prometheus.CounterVec
}

func newGauge(name string, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		[]string{"serial_number"},
	)
}

func newMetrics(reg prometheus.Registerer, serial sgp30.Serial) *metrics {
	co2eq := newGauge("air_co2eq_level", "CO2 equivalent (units: ppm)")
	tvoc := newGauge("air_tvoc_level", "Total Volatile Organic Compounds (units: ppb)")
	h2 := newGauge("sgp30_raw_h2", "Raw H2 signal (units: ticks)")
	ethanol := newGauge("sgp30_raw_ethanol", "Raw ethanol signal (units: ticks)")
	baselineCO2eq := newGauge("sgp30_baseline_co2eq", "Baseline of the CO2eq compensation")
	baselineTVOC := newGauge("sgp30_baseline_tvoc", "Baseline of the TVOC compensation")
	errs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sgp30_errors_total",
			Help: "Failed sensor commands by kind (write, read, crc, other)",
		},
		[]string{"serial_number", "kind"},
	)
	reg.MustRegister(co2eq, tvoc, h2, ethanol, baselineCO2eq, baselineTVOC, errs)

	sn := serial.String()
	return &metrics{
		co2eq:         co2eq.WithLabelValues(sn),
		tvoc:          tvoc.WithLabelValues(sn),
		h2:            h2.WithLabelValues(sn),
		ethanol:       ethanol.WithLabelValues(sn),
		baselineCO2eq: baselineCO2eq.WithLabelValues(sn),
		baselineTVOC:  baselineTVOC.WithLabelValues(sn),
		errors:        errs.MustCurryWith(prometheus.Labels{"serial_number": sn}),
	}
}

// countError counts err under the kind of failure it wraps.
func (m *metrics) countError(err error) {
	kind := "other"
	switch {
	case errors.Is(err, sgp30.ErrWrite):
		kind = "write"
	case errors.Is(err, sgp30.ErrRead):
		kind = "read"
	case errors.Is(err, sgp30.ErrCRC):
		kind = "crc"
	}
	m.errors.WithLabelValues(kind).Inc()
}
