// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package geo holds the spherical-earth math used by the direction finder:
// great-circle distance, initial bearing and angle normalization.
//
// Degrees are used at the public boundary only; every trigonometric step is
// done in radians.
package geo

import (
	"fmt"
	"math"
)

// Point is a geographic position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// InvalidPositionError reports a latitude/longitude that is non-finite or
// outside [-90,90] / [-180,180]. Positions are never clamped.
type InvalidPositionError struct {
	Lat    float64
	Lon    float64
	Reason string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position (lat=%v, lon=%v): %s", e.Lat, e.Lon, e.Reason)
}

// Validate checks that p is finite and within range.
func (p Point) Validate() error {
	switch {
	case math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0):
		return &InvalidPositionError{Lat: p.Lat, Lon: p.Lon, Reason: "latitude is not finite"}
	case math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0):
		return &InvalidPositionError{Lat: p.Lat, Lon: p.Lon, Reason: "longitude is not finite"}
	case p.Lat < -90 || p.Lat > 90:
		return &InvalidPositionError{Lat: p.Lat, Lon: p.Lon, Reason: "latitude out of range [-90,90]"}
	case p.Lon < -180 || p.Lon > 180:
		return &InvalidPositionError{Lat: p.Lat, Lon: p.Lon, Reason: "longitude out of range [-180,180]"}
	}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// UnitVector returns p as a point on the unit sphere (ECEF axes).
// The straight-line (chord) distance between two unit vectors grows
// monotonically with the great-circle angle between them.
func (p Point) UnitVector() [3]float64 {
	lat := Radians(p.Lat)
	lon := Radians(p.Lon)
	cosLat := math.Cos(lat)
	return [3]float64{
		cosLat * math.Cos(lon),
		cosLat * math.Sin(lon),
		math.Sin(lat),
	}
}
