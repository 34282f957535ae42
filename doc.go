// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airquality is a container for the SGP30 gas sensor driver and the
// helpers it shares with other Sensirion parts.
//
// The driver lives in package sgp30, the CRC8 used on the wire in package
// common, and a metrics exporter in cmd/sgp30.
package airquality
