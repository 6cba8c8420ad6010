// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geo

import "math"

// EarthRadiusMeters is the mean earth radius used unless configured otherwise.
const EarthRadiusMeters = 6_371_000.0

// Sphere is a spherical earth model of a given radius.
type Sphere struct {
	RadiusMeters float64
}

// Earth is the default model.
var Earth = Sphere{RadiusMeters: EarthRadiusMeters}

// Distance returns the haversine great-circle distance between a and b in
// meters. Distance(a, b) == Distance(b, a) and Distance(a, a) == 0.
func (s Sphere) Distance(a, b Point) float64 {
	return s.RadiusMeters * CentralAngle(a, b)
}

// CentralAngle returns the angle in radians subtended at the sphere's
// centre by a and b.
func CentralAngle(a, b Point) float64 {
	phi1 := Radians(a.Lat)
	phi2 := Radians(b.Lat)
	dPhi := Radians(b.Lat - a.Lat)
	dLambda := Radians(b.Lon - a.Lon)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Rounding can push h a hair outside [0,1] near antipodes.
	h = math.Min(math.Max(h, 0), 1)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing from a to b in degrees,
// in [0,360), 0 = true north, clockwise. Identical points yield 0.
func (s Sphere) Bearing(a, b Point) float64 {
	if a == b {
		return 0
	}
	phi1 := Radians(a.Lat)
	phi2 := Radians(b.Lat)
	dLambda := Radians(b.Lon - a.Lon)

	x := math.Sin(dLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	if x == 0 && y == 0 {
		return 0
	}
	return NormalizeDegrees(Degrees(math.Atan2(x, y)))
}

// Distance is Earth.Distance.
func Distance(a, b Point) float64 {
	return Earth.Distance(a, b)
}

// Bearing is Earth.Bearing.
func Bearing(a, b Point) float64 {
	return Earth.Bearing(a, b)
}
