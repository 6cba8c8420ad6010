// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// FileVersion is the catalog file version written by WriteFile.
const FileVersion = 1

// ErrUnsupportedVersion is returned for catalog files of an unknown version.
var ErrUnsupportedVersion = errors.New("catalog: unsupported file version")

// fileDoc is the catalog file layout. JSON documents decode too.
//
//	version: 1
//	points:
//	  - [43.6532, -79.3832]
type fileDoc struct {
	Version int    `yaml:"version"`
	Points  []pair `yaml:"points"`
}

// pair is a [lat, lon] sequence, written in flow style.
type pair [2]float64

func (p pair) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range p {
		n.Content = append(n.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(v, 'f', -1, 64),
		})
	}
	return n, nil
}

func (p *pair) UnmarshalYAML(value *yaml.Node) error {
	var vals []float64
	if err := value.Decode(&vals); err != nil {
		return err
	}
	if len(vals) != 2 {
		return fmt.Errorf("line %d: want [lat, lon], got %d values", value.Line, len(vals))
	}
	p[0], p[1] = vals[0], vals[1]
	return nil
}

// Parse decodes a catalog document. Points keep their file order. An empty
// list is not an error here; Build rejects it.
func Parse(b []byte) ([]geo.Point, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if doc.Version != FileVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	points := make([]geo.Point, len(doc.Points))
	for i, p := range doc.Points {
		points[i] = geo.Point{Lat: p[0], Lon: p[1]}
		if err := points[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog: point %d: %w", i, err)
		}
	}
	return points, nil
}

// LoadFile reads a catalog file from disk.
func LoadFile(path string) ([]geo.Point, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(b)
}

// Marshal encodes points as a version 1 catalog document.
func Marshal(points []geo.Point) ([]byte, error) {
	doc := fileDoc{Version: FileVersion, Points: make([]pair, len(points))}
	for i, p := range points {
		doc.Points[i] = pair{p.Lat, p.Lon}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("catalog: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("catalog: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes points to path as a catalog file.
func WriteFile(path string, points []geo.Point) error {
	b, err := Marshal(points)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
