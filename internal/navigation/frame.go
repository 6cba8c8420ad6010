// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package navigation

import (
	"time"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// Frame is one published navigator tick: the result plus the inputs it was
// computed from and how fresh they were.
type Frame struct {
	Result

	Time          time.Time `json:"time"`
	Position      geo.Point `json:"position"`
	RawHeadingDeg float64   `json:"raw_heading_deg"`
	Reference     string    `json:"declination_ref"`

	// Ages are -1 while running on configured defaults.
	GPSAgeMs     int64 `json:"gps_age_ms"`
	HeadingAgeMs int64 `json:"heading_age_ms"`
	Stale        bool  `json:"stale"`
}
