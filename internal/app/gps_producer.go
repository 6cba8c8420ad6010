// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/direction_finder/internal/config"
	"github.com/relabs-tech/direction_finder/internal/gps"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes each RMC fix as JSON on TOPIC_GPS.
func RunGPSProducer() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("gps: config not initialised")
	}

	// ---- 1) Connect to MQTT broker ----
	client, err := connectMQTT("gps", cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// ---- 2) Open GPS serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("gps: open %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	log.Printf("gps: serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	return pumpNMEA(port, func(f gps.Fix) error {
		return publishJSON(client, cfg.TopicGPS, true, f)
	})
}

// pumpNMEA reads sentences from r until it fails and hands every RMC fix to
// publish. Malformed sentences are skipped.
func pumpNMEA(r io.Reader, publish func(gps.Fix) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("gps: read: %w", err)
		}

		fix, ok, err := gps.ParseRMC(line)
		if err != nil {
			// noisy GPS or partial sentences
			continue
		}
		if !ok {
			continue
		}

		if err := publish(fix); err != nil {
			log.Printf("gps: publish error: %v", err)
			continue
		}
		if !fix.Valid() {
			log.Printf("gps: no fix yet (%s %s)", fix.Date, fix.Time)
		}
	}
}
