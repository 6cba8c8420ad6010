// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/relabs-tech/direction_finder/internal/geo"
)

// DefaultPostgresQuery selects store coordinates in a stable order.
const DefaultPostgresQuery = `SELECT latitude, longitude FROM stores ORDER BY id`

// LoadPostgres runs query, which must return (latitude, longitude) columns
// in degrees, and returns the rows in result order.
func LoadPostgres(ctx context.Context, dsn, query string) ([]geo.Point, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: connect: %w", err)
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
	}
	points, err := pgx.CollectRows(rows, scanPoint)
	if err != nil {
		return nil, fmt.Errorf("catalog: scan: %w", err)
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: row %d: %w", i, err)
		}
	}
	return points, nil
}

func scanPoint(row pgx.CollectableRow) (geo.Point, error) {
	var p geo.Point
	err := row.Scan(&p.Lat, &p.Lon)
	return p, err
}
