// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package catalog holds the fixed list of points of interest and the
// nearest-neighbour index built over it.
package catalog

import (
	"fmt"
	"math"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// pruneSlackRad keeps rounding differences between the chord bound and the
// haversine distance from pruning a true winner. Haversine loses precision
// near antipodes (~1e-8 rad), hence the margin (~64 cm on earth).
const pruneSlackRad = 1e-7

// InvalidCatalogError reports an empty or invalid catalog, or a query
// against an index that was never built.
type InvalidCatalogError struct {
	Reason string
	Err    error
}

func (e *InvalidCatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid catalog: %s: %v", e.Reason, e.Err)
	}
	return "invalid catalog: " + e.Reason
}

func (e *InvalidCatalogError) Unwrap() error { return e.Err }

// Neighbor is the result of a nearest query.
type Neighbor struct {
	Point          geo.Point `json:"point"`
	Index          int       `json:"index"` // ordinal in the original catalog
	DistanceMeters float64   `json:"distance_m"`
}

type node struct {
	vec   [3]float64
	ord   int32
	axis  int8
	left  int32
	right int32
}

// Index is a k-d tree over the unit-sphere vectors of the catalog points.
// It is read-only after Build and safe for concurrent queries.
type Index struct {
	points []geo.Point
	nodes  []node
	root   int32
	sphere geo.Sphere
}

// Build indexes points on the default earth sphere.
func Build(points []geo.Point) (*Index, error) {
	return BuildWithSphere(points, geo.Earth)
}

// BuildWithSphere indexes points, reporting distances on sphere.
// The points slice is copied.
func BuildWithSphere(points []geo.Point, sphere geo.Sphere) (*Index, error) {
	if len(points) == 0 {
		return nil, &InvalidCatalogError{Reason: "catalog is empty"}
	}
	if len(points) > math.MaxInt32 {
		return nil, &InvalidCatalogError{Reason: fmt.Sprintf("catalog too large (%d points)", len(points))}
	}
	if !(sphere.RadiusMeters > 0) || math.IsInf(sphere.RadiusMeters, 0) {
		return nil, &InvalidCatalogError{Reason: fmt.Sprintf("bad sphere radius %v", sphere.RadiusMeters)}
	}

	ix := &Index{
		points: make([]geo.Point, len(points)),
		nodes:  make([]node, 0, len(points)),
		sphere: sphere,
	}
	copy(ix.points, points)

	vecs := make([][3]float64, len(points))
	ids := make([]int32, len(points))
	for i, p := range ix.points {
		if err := p.Validate(); err != nil {
			return nil, &InvalidCatalogError{Reason: fmt.Sprintf("point %d", i), Err: err}
		}
		vecs[i] = p.UnitVector()
		ids[i] = int32(i)
	}

	b := builder{vecs: vecs, nodes: &ix.nodes}
	ix.root = b.build(ids)
	return ix, nil
}

// Len returns the number of catalog points.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.points)
}

// Point returns the i-th catalog point in original order.
func (ix *Index) Point(i int) geo.Point {
	return ix.points[i]
}

// Points returns a copy of the catalog in original order.
func (ix *Index) Points() []geo.Point {
	out := make([]geo.Point, len(ix.points))
	copy(out, ix.points)
	return out
}

// Sphere returns the model distances are reported on.
func (ix *Index) Sphere() geo.Sphere {
	return ix.sphere
}

// Nearest returns the catalog point with the smallest great-circle distance
// to q. Equidistant points resolve to the lowest catalog ordinal.
func (ix *Index) Nearest(q geo.Point) (Neighbor, error) {
	if ix == nil || len(ix.nodes) == 0 {
		return Neighbor{}, &InvalidCatalogError{Reason: "index not built"}
	}
	if err := q.Validate(); err != nil {
		return Neighbor{}, err
	}

	s := search{
		ix:       ix,
		q:        q,
		qv:       q.UnitVector(),
		best:     -1,
		bestDist: math.Inf(1),
		slack:    pruneSlackRad * ix.sphere.RadiusMeters,
	}
	s.visit(ix.root)

	return Neighbor{
		Point:          ix.points[s.best],
		Index:          int(s.best),
		DistanceMeters: s.bestDist,
	}, nil
}

type search struct {
	ix       *Index
	q        geo.Point
	qv       [3]float64
	best     int32
	bestDist float64
	slack    float64
}

func (s *search) visit(n int32) {
	if n < 0 {
		return
	}
	nd := &s.ix.nodes[n]

	d := s.ix.sphere.Distance(s.q, s.ix.points[nd.ord])
	if d < s.bestDist || (d == s.bestDist && nd.ord < s.best) {
		s.best, s.bestDist = nd.ord, d
	}

	diff := s.qv[nd.axis] - nd.vec[nd.axis]
	near, far := nd.left, nd.right
	if diff >= 0 {
		near, far = nd.right, nd.left
	}
	s.visit(near)

	if far < 0 {
		return
	}
	// Anything across the plane is at least |diff| away as a chord.
	half := math.Min(math.Abs(diff)/2, 1)
	bound := 2 * math.Asin(half) * s.ix.sphere.RadiusMeters
	if bound-s.slack > s.bestDist {
		return
	}
	s.visit(far)
}
