// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package navigation ties the catalog index and the declination corrector
// together: one call per display tick turns a position and a raw compass
// heading into everything needed to draw the arrow.
package navigation

import (
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/direction_finder/internal/catalog"
	"github.com/relabs-tech/direction_finder/internal/declination"
	"github.com/relabs-tech/direction_finder/internal/geo"
)

// TieBreakFirstInOrder resolves equidistant catalog points to the one that
// appears first in the catalog. It is the only supported policy.
const TieBreakFirstInOrder = "first-in-order"

// ErrInvalidHeading is returned for a NaN or infinite raw heading.
var ErrInvalidHeading = errors.New("navigation: heading is not finite")

// Result is what the display layer renders each tick.
type Result struct {
	CorrectedHeadingDeg float64   `json:"heading_deg"`
	BearingToTargetDeg  float64   `json:"bearing_deg"`
	DistanceMeters      float64   `json:"distance_m"`
	Target              geo.Point `json:"target"`
	TargetIndex         int       `json:"target_index"`
}

// TurnAngleDeg is the clockwise angle from the current heading to the
// target bearing, in [0,360). 0 means straight ahead.
func (r Result) TurnAngleDeg() float64 {
	return geo.NormalizeDegrees(r.BearingToTargetDeg - r.CorrectedHeadingDeg)
}

// Compass returns the eight-point label of the bearing to the target.
func (r Result) Compass() string {
	return geo.ShortCompass(r.BearingToTargetDeg)
}

// Engine is stateless apart from the immutable index and corrector it was
// built with; Evaluate may be called from any goroutine.
type Engine struct {
	index     *catalog.Index
	corrector *declination.Corrector
	sphere    geo.Sphere
}

// Option configures an Engine.
type Option func(*engineOptions) error

type engineOptions struct {
	sphere   geo.Sphere
	tieBreak string
}

// WithSphere sets the sphere used for the bearing. Distances come from the
// index, so build it with the same sphere.
func WithSphere(s geo.Sphere) Option {
	return func(o *engineOptions) error {
		if !(s.RadiusMeters > 0) || math.IsInf(s.RadiusMeters, 0) {
			return fmt.Errorf("navigation: bad earth radius %v", s.RadiusMeters)
		}
		o.sphere = s
		return nil
	}
}

// WithTieBreak selects the equidistance policy.
func WithTieBreak(policy string) Option {
	return func(o *engineOptions) error {
		if policy != TieBreakFirstInOrder {
			return fmt.Errorf("navigation: unsupported tie break %q", policy)
		}
		o.tieBreak = policy
		return nil
	}
}

// New builds an engine. A nil index is accepted so that the error surfaces
// from Evaluate the same way as for any unbuilt index.
func New(index *catalog.Index, corrector *declination.Corrector, opts ...Option) (*Engine, error) {
	if corrector == nil {
		return nil, errors.New("navigation: nil declination corrector")
	}
	o := engineOptions{sphere: geo.Earth, tieBreak: TieBreakFirstInOrder}
	if index != nil && index.Len() > 0 {
		o.sphere = index.Sphere()
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &Engine{index: index, corrector: corrector, sphere: o.sphere}, nil
}

// Evaluate computes the corrected heading and the bearing and distance to
// the nearest catalog point. Each call is independent; identical inputs give
// identical results.
func (e *Engine) Evaluate(rawHeadingDeg float64, position geo.Point) (Result, error) {
	if err := position.Validate(); err != nil {
		return Result{}, err
	}
	if math.IsNaN(rawHeadingDeg) || math.IsInf(rawHeadingDeg, 0) {
		return Result{}, ErrInvalidHeading
	}

	heading := e.corrector.CorrectedHeading(rawHeadingDeg, position)

	nearest, err := e.index.Nearest(position)
	if err != nil {
		return Result{}, fmt.Errorf("navigation: nearest: %w", err)
	}

	return Result{
		CorrectedHeadingDeg: heading,
		BearingToTargetDeg:  e.sphere.Bearing(position, nearest.Point),
		DistanceMeters:      nearest.DistanceMeters,
		Target:              nearest.Point,
		TargetIndex:         nearest.Index,
	}, nil
}
