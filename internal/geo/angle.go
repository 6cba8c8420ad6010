// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geo

import "math"

const twoPi = 2 * math.Pi

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees wraps any finite angle into [0,360), no matter how many
// turns it is away from that range.
func NormalizeDegrees(deg float64) float64 {
	return wrap(deg, 360)
}

// NormalizeRadians wraps any finite angle into [0,2π).
func NormalizeRadians(rad float64) float64 {
	return wrap(rad, twoPi)
}

func wrap(v, turn float64) float64 {
	r := math.Mod(v, turn)
	if r < 0 {
		r += turn
	}
	// -1e-17 + 360 rounds to 360; also folds -0 into +0.
	if r >= turn || r == 0 {
		return 0
	}
	return r
}

// ShortCompass returns the closest of the eight compass points for a
// heading in degrees ("N", "NE", ...).
func ShortCompass(deg float64) string {
	h := NormalizeDegrees(deg + 22.5)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[int(h/45)%8]
}
