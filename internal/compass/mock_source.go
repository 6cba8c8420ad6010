// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"math"
	"time"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// mockFieldStrength is roughly the horizontal field at mid latitudes, in
// counts at the 1.3 Ga gain.
const mockFieldStrength = 200.0

type mockSource struct {
	start      time.Time
	now        func() time.Time
	degPerSec  float64
	initialDeg float64
}

// NewMockSource creates a compass that turns clockwise at degPerSec,
// starting at initialDeg. The field is generated so that the identity
// calibration yields exactly those headings.
func NewMockSource(initialDeg, degPerSec float64) Source {
	return newMockSource(initialDeg, degPerSec, time.Now)
}

func newMockSource(initialDeg, degPerSec float64, now func() time.Time) *mockSource {
	return &mockSource{
		start:      now(),
		now:        now,
		degPerSec:  degPerSec,
		initialDeg: initialDeg,
	}
}

func (m *mockSource) Next() (Field, error) {
	elapsed := m.now().Sub(m.start).Seconds()
	h := geo.Radians(math.Mod(m.initialDeg+elapsed*m.degPerSec, 360))
	return Field{
		X: mockFieldStrength * math.Cos(h),
		Y: mockFieldStrength * math.Sin(h),
	}, nil
}
