// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// ./cmd/calibration/main.go
//
// Hard-iron / soft-iron calibration for the HMC5883L compass.
//
// The device is turned through full circles while the horizontal field is
// sampled; the per-axis min/max give the offsets (centre of each range) and
// scales (each half-range over their mean).
//
// Output:
//
//	COMPASS_OFFSET_X/Y and COMPASS_SCALE_X/Y lines for direction_config.txt.
//
// Run:
//
//	go run ./cmd/calibration -duration 45s
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/direction_finder/internal/app"
	"github.com/relabs-tech/direction_finder/internal/config"
)

func main() {
	in := bufio.NewReader(os.Stdin)

	// Parse command-line flags
	configPath := flag.String("config", "./direction_config.txt", "Path to configuration file")
	duration := flag.Duration("duration", 30*time.Second, "How long to sample while rotating")
	flag.Parse()

	fmt.Println("=== Compass Calibration (HMC5883L) ===")
	fmt.Println()

	// Initialize configuration
	if err := config.InitGlobal(*configPath); err != nil {
		fatal(fmt.Errorf("failed to load config from %s: %w", *configPath, err))
	}

	if err := app.RunCompassCalibration(in, os.Stdout, *duration); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
