// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// LoadZones flattens a zone grid file of the form
//
//	{"zone_0_1": [[43.65, -79.38], ...], ...}
//
// into a single list. Zones are taken in sorted name order and points keep
// their order inside each zone, so the result is stable across runs.
func LoadZones(path string) ([]geo.Point, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var zones map[string][][]float64
	if err := json.Unmarshal(b, &zones); err != nil {
		return nil, fmt.Errorf("catalog: decode zones: %w", err)
	}

	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)

	var points []geo.Point
	for _, name := range names {
		for i, ll := range zones[name] {
			if len(ll) != 2 {
				return nil, fmt.Errorf("catalog: zone %q point %d: want [lat, lon]", name, i)
			}
			p := geo.Point{Lat: ll[0], Lon: ll[1]}
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("catalog: zone %q point %d: %w", name, i, err)
			}
			points = append(points, p)
		}
	}
	return points, nil
}
