// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package declination corrects magnetic compass headings to true headings
// using the declination of the nearest reference location.
package declination

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// TableVersion is the only table file version understood by LoadTable.
const TableVersion = 1

// ErrEmptyTable is returned when a table holds no references.
var ErrEmptyTable = errors.New("declination: table has no references")

// Entry is one reference location and its magnetic declination.
// Positive offsets are east of true north.
type Entry struct {
	Name      string    `yaml:"name" json:"name"`
	Point     geo.Point `yaml:",inline" json:"point"`
	OffsetRad float64   `yaml:"offset_rad" json:"offset_rad"`
}

// Table is an ordered list of references. Order matters: on equal
// distance the earlier entry wins.
type Table []Entry

// tableFile is the on-disk layout:
//
//	version: 1
//	references:
//	  - name: toronto
//	    lat: 43.7
//	    lon: -79.4
//	    offset_rad: 0.1972222
type tableFile struct {
	Version    int     `yaml:"version"`
	References []Entry `yaml:"references"`
}

// DefaultTable returns the built-in Toronto/Kingston references.
func DefaultTable() Table {
	return Table{
		{Name: "toronto", Point: geo.Point{Lat: 43.7, Lon: -79.4}, OffsetRad: 0.1972222},
		{Name: "kingston", Point: geo.Point{Lat: 44.2, Lon: -76.5}, OffsetRad: 0.244346},
	}
}

// Validate checks the table is non-empty, every point is valid, offsets are
// finite and names are unique.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	seen := make(map[string]bool, len(t))
	for i, e := range t {
		if e.Name == "" {
			return fmt.Errorf("declination: reference %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("declination: duplicate reference %q", e.Name)
		}
		seen[e.Name] = true
		if err := e.Point.Validate(); err != nil {
			return fmt.Errorf("declination: reference %q: %w", e.Name, err)
		}
		if !isFinite(e.OffsetRad) {
			return fmt.Errorf("declination: reference %q: offset is not finite", e.Name)
		}
	}
	return nil
}

// ParseTable decodes a YAML (or JSON) table document.
func ParseTable(b []byte) (Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("declination: decode table: %w", err)
	}
	if f.Version != TableVersion {
		return nil, fmt.Errorf("declination: unsupported table version %d (want %d)", f.Version, TableVersion)
	}
	t := Table(f.References)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTable reads a table file from disk.
func LoadTable(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("declination: read table: %w", err)
	}
	return ParseTable(b)
}
