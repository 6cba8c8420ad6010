// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"errors"
	"math"
)

// ErrNotEnoughSpread is returned when an axis has not been swept.
var ErrNotEnoughSpread = errors.New("compass: not enough rotation to calibrate")

// Calibrator accumulates per-axis extrema while the device is rotated
// through a full turn.
type Calibrator struct {
	minX, maxX float64
	minY, maxY float64
	samples    int
}

// Add records one sample.
func (c *Calibrator) Add(f Field) {
	if c.samples == 0 {
		c.minX, c.maxX = f.X, f.X
		c.minY, c.maxY = f.Y, f.Y
	} else {
		c.minX = math.Min(c.minX, f.X)
		c.maxX = math.Max(c.maxX, f.X)
		c.minY = math.Min(c.minY, f.Y)
		c.maxY = math.Max(c.maxY, f.Y)
	}
	c.samples++
}

// Samples is the number of samples recorded so far.
func (c *Calibrator) Samples() int {
	return c.samples
}

// Calibration derives offsets from the centre of each axis range and scales
// that equalise both ranges to their mean radius.
func (c *Calibrator) Calibration() (Calibration, error) {
	rx := (c.maxX - c.minX) / 2
	ry := (c.maxY - c.minY) / 2
	if c.samples < 2 || rx <= 0 || ry <= 0 {
		return Calibration{}, ErrNotEnoughSpread
	}
	avg := (rx + ry) / 2
	return Calibration{
		OffsetX: (c.maxX + c.minX) / 2,
		OffsetY: (c.maxY + c.minY) / 2,
		ScaleX:  rx / avg,
		ScaleY:  ry / avg,
	}, nil
}
