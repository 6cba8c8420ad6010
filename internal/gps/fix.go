// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// ErrNoFix is returned by Fix.Point for a void (status V) fix.
var ErrNoFix = errors.New("gps: no valid fix")

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56.0000"
	Date       string  `json:"date"`        // e.g. "06/12/25"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void)
}

// Valid reports whether the receiver flagged the fix as active.
func (f Fix) Valid() bool {
	return f.Validity == "A"
}

// Point returns the fix position, or an error for void or out-of-range fixes.
func (f Fix) Point() (geo.Point, error) {
	if !f.Valid() {
		return geo.Point{}, ErrNoFix
	}
	p := geo.Point{Lat: f.Latitude, Lon: f.Longitude}
	if err := p.Validate(); err != nil {
		return geo.Point{}, err
	}
	return p, nil
}
