// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"github.com/relabs-tech/direction_finder/internal/catalog"
	"github.com/relabs-tech/direction_finder/internal/config"
	"github.com/relabs-tech/direction_finder/internal/declination"
	"github.com/relabs-tech/direction_finder/internal/navigation"
)

// loadEngine reads the catalog and declination table named by cfg and
// builds the navigation engine over them.
func loadEngine(cfg *config.Config) (*navigation.Engine, *declination.Corrector, error) {
	sphere := cfg.Sphere()

	table := declination.DefaultTable()
	if cfg.DeclinationTable != "" {
		t, err := declination.LoadTable(cfg.DeclinationTable)
		if err != nil {
			return nil, nil, err
		}
		table = t
	}
	corrector, err := declination.NewCorrector(table, sphere)
	if err != nil {
		return nil, nil, err
	}

	points, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	index, err := catalog.BuildWithSphere(points, sphere)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %s: %w", cfg.CatalogPath, err)
	}
	log.Printf("navigator: indexed %d catalog points from %s", index.Len(), cfg.CatalogPath)

	engine, err := navigation.New(index, corrector,
		navigation.WithSphere(sphere),
		navigation.WithTieBreak(cfg.TieBreak),
	)
	if err != nil {
		return nil, nil, err
	}
	return engine, corrector, nil
}
