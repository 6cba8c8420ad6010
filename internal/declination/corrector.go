// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package declination

import (
	"math"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// Corrector maps a raw magnetic heading at a position to a true heading.
// It is immutable and safe for concurrent use.
type Corrector struct {
	table  Table
	sphere geo.Sphere
}

// NewCorrector copies table and validates it.
func NewCorrector(table Table, sphere geo.Sphere) (*Corrector, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	t := make(Table, len(table))
	copy(t, table)
	return &Corrector{table: t, sphere: sphere}, nil
}

// Lookup returns the reference closest to p and its distance in meters.
// Ties keep the first entry in table order.
func (c *Corrector) Lookup(p geo.Point) (Entry, float64) {
	best := 0
	bestDist := c.sphere.Distance(p, c.table[0].Point)
	for i := 1; i < len(c.table); i++ {
		if d := c.sphere.Distance(p, c.table[i].Point); d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.table[best], bestDist
}

// CorrectedHeading adds the nearest reference's declination to
// rawHeadingDeg and returns the result in [0,360).
func (c *Corrector) CorrectedHeading(rawHeadingDeg float64, p geo.Point) float64 {
	ref, _ := c.Lookup(p)
	rad := geo.NormalizeRadians(geo.Radians(rawHeadingDeg) + ref.OffsetRad)
	return geo.NormalizeDegrees(geo.Degrees(rad))
}

// Table returns a copy of the references.
func (c *Corrector) Table() Table {
	t := make(Table, len(c.table))
	copy(t, c.table)
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
