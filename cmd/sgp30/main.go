// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// sgp30 reads a Sensirion SGP30 gas sensor once per second and exposes the
// readings to Prometheus.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/airquality/sgp30"
)

// CLI args
var (
	busName        = flag.String("bus", "", "I²C bus to use, empty for the first one")
	address        = flag.Uint("addr", uint(sgp30.DefaultAddress), "I²C address of the sensor")
	listenAddr     = flag.String("listen-address", ":8080", "The address to listen on for HTTP requests, empty to disable.")
	interval       = flag.Duration("interval", time.Second, "time between measurements, the sensor expects 1s")
	samples        = flag.Int("samples", 0, "stop after this many measurements, 0 runs forever")
	baselineFile   = flag.String("baseline-file", "", "file to persist the baseline in, empty to disable")
	baselineEvery  = flag.Duration("baseline-interval", time.Hour, "time between baseline saves")
	baselineMaxAge = flag.Duration("baseline-max-age", 7*24*time.Hour, "oldest stored baseline that is restored")
	humidity       = flag.Float64("humidity", 0, "absolute humidity in g/m³ for compensation, 0 keeps the sensor default")
	raw            = flag.Bool("raw", false, "also export the raw H2 and ethanol signals")
	selfTest       = flag.Bool("selftest", false, "run the on-chip self test before starting")
	logLevel       = flag.String("log-level", "info", "log level")
)

func init() {
	//logging
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func main() {
	flag.Parse()
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := mainImpl(ctx); err != nil {
		log.Fatal(err)
	}
}

func mainImpl(ctx context.Context) error {
	if *address > 0x7f {
		return errors.Errorf("invalid I²C address 0x%x", *address)
	}
	var h *sgp30.Humidity
	if *humidity != 0 {
		v, err := sgp30.HumidityFromFloat(*humidity)
		if err != nil {
			return err
		}
		h = &v
	}

	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "host init")
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return errors.Wrap(err, "opening I²C bus")
	}
	defer bus.Close()

	dev, err := sgp30.New(bus, i2c.Addr(*address), nil)
	if err != nil {
		return err
	}
	defer dev.Release()
	log.Info(dev)

	serial, err := dev.SerialNumber()
	if err != nil {
		return errors.Wrap(err, "reading serial number")
	}
	fs, err := dev.GetFeatureSet()
	if err != nil {
		return errors.Wrap(err, "reading feature set")
	}
	logger := log.WithField("serial_number", serial.String())
	logger.Infof("found %s", fs)
	if !fs.ProductType.Known() {
		logger.Warnf("unexpected product type %s", fs.ProductType)
	}

	if *selfTest {
		pass, err := dev.SelfTest()
		if err != nil {
			return errors.Wrap(err, "self test")
		}
		if !pass {
			return errors.New("self test failed")
		}
		logger.Info("self test passed")
	}

	m := &monitor{
		dev:     dev,
		serial:  serial,
		metrics: newMetrics(prometheus.DefaultRegisterer, serial),
		log:     logger,
		raw:     *raw,
	}
	if *baselineFile != "" {
		m.store = &baselineStore{path: *baselineFile, maxAge: *baselineMaxAge, now: time.Now}
	}
	if err := m.start(h); err != nil {
		return err
	}

	if *listenAddr != "" {
		go func() {
			// Expose the registered metrics via HTTP.
			http.Handle("/metrics", promhttp.HandlerFor(
				prometheus.DefaultGatherer,
				promhttp.HandlerOpts{
					// Opt into OpenMetrics to support exemplars.
					EnableOpenMetrics: true,
				},
			))
			log.Panic(http.ListenAndServe(*listenAddr, nil))
		}()
	}

	return m.run(ctx, *interval, *baselineEvery, *samples)
}
