// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/direction_finder/internal/compass"
	"github.com/relabs-tech/direction_finder/internal/config"
)

// mockTurnRate is how fast the simulated device spins, in degrees/second.
const mockTurnRate = 30

// RunMockConsole runs the engine in-process against a spinning mock compass
// held at the default position. No broker or hardware is needed.
func RunMockConsole() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("console: config not initialised")
	}

	engine, corrector, err := loadEngine(cfg)
	if err != nil {
		return err
	}
	nav := NewNavigator(engine, corrector, cfg.DefaultPosition(), cfg.DefaultHeading, cfg.StaleDuration())

	src := compass.NewMockSource(cfg.DefaultHeading, mockTurnRate)
	ticker := time.NewTicker(navigatorTick)
	defer ticker.Stop()

	for now := range ticker.C {
		r, err := compass.Read(src, compass.Identity, now)
		if err != nil {
			return err
		}
		if err := nav.UpdateHeading(r, now); err != nil {
			return err
		}

		frame, err := nav.Tick(now)
		if err != nil {
			return err
		}
		printFrame(os.Stdout, frame)
	}
	return nil
}
