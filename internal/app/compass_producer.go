// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/direction_finder/internal/compass"
	"github.com/relabs-tech/direction_finder/internal/config"
)

// openCompass initialises periph, opens the configured bus and sets up the
// HMC5883L. The returned closer releases the bus.
func openCompass(cfg *config.Config) (*compass.HMC5883L, i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("compass: periph host init failed: %w", err)
	}

	bus, err := i2creg.Open(cfg.CompassI2CBus)
	if err != nil {
		return nil, nil, fmt.Errorf("compass: i2c open failed on bus %s: %w", cfg.CompassI2CBus, err)
	}

	dev, err := compass.NewHMC5883L(bus, cfg.CompassI2CAddr)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	if id, err := dev.ID(); err != nil {
		log.Printf("compass: id read failed: %v", err)
	} else {
		log.Printf("compass: HMC5883L ID=%q (addr=0x%X)", id, cfg.CompassI2CAddr)
	}
	return dev, bus, nil
}

// compassCalibration builds the calibration from COMPASS_OFFSET_*/SCALE_*.
func compassCalibration(cfg *config.Config) compass.Calibration {
	return compass.Calibration{
		OffsetX: cfg.CompassOffsetX,
		OffsetY: cfg.CompassOffsetY,
		ScaleX:  cfg.CompassScaleX,
		ScaleY:  cfg.CompassScaleY,
	}
}

// RunCompassProducer samples the magnetometer and publishes raw headings on
// TOPIC_HEADING until SIGINT/SIGTERM.
func RunCompassProducer() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("compass: config not initialised")
	}
	cal := compassCalibration(cfg)
	if err := cal.Validate(); err != nil {
		return err
	}

	dev, bus, err := openCompass(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()

	client, err := connectMQTT("compass", cfg.MQTTBroker, cfg.MQTTClientIDCompass)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.CompassInterval())
	defer ticker.Stop()

	log.Printf("compass: producer started (%v)", cfg.CompassInterval())
	for {
		select {
		case <-ctx.Done():
			log.Println("compass: shutting down")
			return nil
		case now := <-ticker.C:
			r, err := compass.Read(dev, cal, now)
			if err != nil {
				log.Printf("compass: read error: %v", err)
				continue
			}
			if err := publishJSON(client, cfg.TopicHeading, false, r); err != nil {
				log.Printf("compass: publish error: %v", err)
			}
		}
	}
}
