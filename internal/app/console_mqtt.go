// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/direction_finder/internal/compass"
	"github.com/relabs-tech/direction_finder/internal/config"
	"github.com/relabs-tech/direction_finder/internal/gps"
	"github.com/relabs-tech/direction_finder/internal/navigation"
)

func printFrame(w io.Writer, f navigation.Frame) {
	stale := ""
	if f.Stale {
		stale = "  STALE"
	}
	fmt.Fprintf(w,
		"[NAV ]  heading=%6.2f  bearing=%6.2f (%-2s)  turn=%6.2f  dist=%8.1fm  target=#%d %s  ref=%s%s\n",
		f.CorrectedHeadingDeg, f.BearingToTargetDeg, f.Compass(), f.TurnAngleDeg(),
		f.DistanceMeters, f.TargetIndex, f.Target, f.Reference, stale,
	)
}

func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("console: config not initialised")
	}

	client, err := connectMQTT("console", cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}

	if err := subscribeJSON("console", client, cfg.TopicNav, func(f navigation.Frame) {
		printFrame(os.Stdout, f)
	}); err != nil {
		return err
	}

	if err := subscribeJSON("console", client, cfg.TopicHeading, func(r compass.Reading) {
		fmt.Printf("[HDG ]  raw=%6.2f  x=%8.2f y=%8.2f\n", r.HeadingDeg, r.X, r.Y)
	}); err != nil {
		return err
	}

	if err := subscribeJSON("console", client, cfg.TopicGPS, func(f gps.Fix) {
		fmt.Printf(
			"[GPS ]  time=%s date=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° validity=%s\n",
			f.Time, f.Date, f.Latitude, f.Longitude, f.SpeedKnots, f.CourseDeg, f.Validity,
		)
	}); err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
