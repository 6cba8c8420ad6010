// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/direction_finder/internal/app"
	"github.com/relabs-tech/direction_finder/internal/config"
)

func main() {
	configPath := flag.String("config", "./direction_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting direction-finder (mock console)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunMockConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
