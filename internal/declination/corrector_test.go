// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package declination

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

func newDefaultCorrector(t *testing.T) *Corrector {
	t.Helper()
	c, err := NewCorrector(DefaultTable(), geo.Earth)
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	return c
}

func TestLookup_PicksNearestReference(t *testing.T) {
	c := newDefaultCorrector(t)

	ref, dist := c.Lookup(geo.Point{Lat: 43.66, Lon: -79.38})
	if ref.Name != "toronto" {
		t.Fatalf("expected toronto, got %q", ref.Name)
	}
	if math.Abs(dist-4729.66) > 1 {
		t.Fatalf("distance to toronto = %f, want ~4729.66", dist)
	}

	ref, _ = c.Lookup(geo.Point{Lat: 44.23, Lon: -76.48})
	if ref.Name != "kingston" {
		t.Fatalf("expected kingston, got %q", ref.Name)
	}
}

func TestCorrectedHeading_UsesNearestOffset(t *testing.T) {
	c := newDefaultCorrector(t)
	got := c.CorrectedHeading(0, geo.Point{Lat: 43.66, Lon: -79.38})
	want := 0.1972222 * 180 / math.Pi
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("CorrectedHeading = %f, want %f (toronto offset)", got, want)
	}
}

func TestCorrectedHeading_FullTurnWrap(t *testing.T) {
	c := newDefaultCorrector(t)
	got := c.CorrectedHeading(400, geo.Point{Lat: 43.66, Lon: -79.38})
	want := math.Mod(400+0.1972222*180/math.Pi, 360)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("CorrectedHeading(400) = %f, want %f", got, want)
	}
}

func TestCorrectedHeading_AlwaysInRange(t *testing.T) {
	table := Table{
		{Name: "huge-east", Point: geo.Point{Lat: 0, Lon: 0}, OffsetRad: 1000},
		{Name: "huge-west", Point: geo.Point{Lat: 10, Lon: 10}, OffsetRad: -1000},
	}
	c, err := NewCorrector(table, geo.Earth)
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	r := rand.New(rand.NewSource(7))
	headings := []float64{0, 360, -360, 720.5, -0.0001, 1e9, -1e9}
	for i := 0; i < 2000; i++ {
		headings = append(headings, (r.Float64()-0.5)*1e5)
	}
	for _, h := range headings {
		p := geo.Point{Lat: r.Float64()*180 - 90, Lon: r.Float64()*360 - 180}
		got := c.CorrectedHeading(h, p)
		if math.IsNaN(got) || got < 0 || got >= 360 {
			t.Fatalf("CorrectedHeading(%v, %v) = %v, out of [0,360)", h, p, got)
		}
	}
}

func TestLookup_TieKeepsTableOrder(t *testing.T) {
	table := Table{
		{Name: "first", Point: geo.Point{Lat: 0, Lon: 1}, OffsetRad: 0.1},
		{Name: "second", Point: geo.Point{Lat: 0, Lon: -1}, OffsetRad: 0.2},
	}
	c, err := NewCorrector(table, geo.Earth)
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	ref, _ := c.Lookup(geo.Point{Lat: 0, Lon: 0})
	if ref.Name != "first" {
		t.Fatalf("tie resolved to %q, want first", ref.Name)
	}
}

func TestNewCorrector_RejectsBadTables(t *testing.T) {
	if _, err := NewCorrector(nil, geo.Earth); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
	dup := Table{
		{Name: "a", Point: geo.Point{Lat: 1, Lon: 1}},
		{Name: "a", Point: geo.Point{Lat: 2, Lon: 2}},
	}
	if _, err := NewCorrector(dup, geo.Earth); err == nil {
		t.Fatalf("expected duplicate name error")
	}
	bad := Table{{Name: "x", Point: geo.Point{Lat: 100, Lon: 0}}}
	_, err := NewCorrector(bad, geo.Earth)
	var posErr *geo.InvalidPositionError
	if !errors.As(err, &posErr) {
		t.Fatalf("expected *geo.InvalidPositionError, got %v", err)
	}
}

func TestCorrector_DoesNotAliasCallerTable(t *testing.T) {
	table := DefaultTable()
	c, err := NewCorrector(table, geo.Earth)
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	table[0].OffsetRad = 3
	if got := c.Table()[0].OffsetRad; got != 0.1972222 {
		t.Fatalf("corrector table changed through caller slice: %v", got)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "declination.yaml")
	doc := `version: 1
references:
  - name: toronto
    lat: 43.7
    lon: -79.4
    offset_rad: 0.1972222
  - name: ottawa
    lat: 45.42
    lon: -75.69
    offset_rad: 0.2251
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if len(table) != 2 || table[1].Name != "ottawa" {
		t.Fatalf("unexpected table: %+v", table)
	}
	if table[1].Point.Lat != 45.42 || table[1].Point.Lon != -75.69 || table[1].OffsetRad != 0.2251 {
		t.Fatalf("unexpected ottawa entry: %+v", table[1])
	}
}

func TestParseTable_Errors(t *testing.T) {
	tests := map[string]string{
		"wrong version": "version: 2\nreferences:\n  - {name: a, lat: 1, lon: 1, offset_rad: 0}\n",
		"empty":         "version: 1\nreferences: []\n",
		"not yaml":      "version: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTable([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
