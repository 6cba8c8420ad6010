// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package compass turns magnetometer samples into raw (magnetic) headings.
package compass

import (
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// Field is one magnetometer sample in sensor counts.
type Field struct {
	X float64
	Y float64
	Z float64
}

// Reading is the JSON payload published on the heading topic.
type Reading struct {
	HeadingDeg float64 `json:"heading_deg"` // magnetic, [0,360)
	X          float64 `json:"x"`           // calibrated
	Y          float64 `json:"y"`           // calibrated
	Time       string  `json:"time"`        // RFC3339
}

// Source produces magnetometer samples.
type Source interface {
	Next() (Field, error)
}

// HeadingFromField returns atan2(y, x) in degrees, wrapped into [0,360).
func HeadingFromField(x, y float64) float64 {
	return geo.NormalizeDegrees(geo.Degrees(math.Atan2(y, x)))
}

// Calibration holds hard-iron offsets and soft-iron scale factors for the
// horizontal axes. The zero value is not usable; see Identity.
type Calibration struct {
	OffsetX float64
	OffsetY float64
	ScaleX  float64
	ScaleY  float64
}

// Identity is a calibration that leaves samples unchanged.
var Identity = Calibration{ScaleX: 1, ScaleY: 1}

// Validate rejects zero or non-finite scales.
func (c Calibration) Validate() error {
	for _, v := range []float64{c.OffsetX, c.OffsetY, c.ScaleX, c.ScaleY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("compass: calibration values must be finite: %+v", c)
		}
	}
	if c.ScaleX == 0 || c.ScaleY == 0 {
		return fmt.Errorf("compass: calibration scale must be non-zero: %+v", c)
	}
	return nil
}

// Apply returns the corrected horizontal components (raw-offset)/scale.
func (c Calibration) Apply(f Field) (x, y float64) {
	return (f.X - c.OffsetX) / c.ScaleX, (f.Y - c.OffsetY) / c.ScaleY
}

// Read takes one sample from src and converts it into a Reading.
func Read(src Source, cal Calibration, now time.Time) (Reading, error) {
	f, err := src.Next()
	if err != nil {
		return Reading{}, err
	}
	x, y := cal.Apply(f)
	return Reading{
		HeadingDeg: HeadingFromField(x, y),
		X:          x,
		Y:          y,
		Time:       now.UTC().Format(time.RFC3339Nano),
	}, nil
}
