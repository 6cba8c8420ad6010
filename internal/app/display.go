// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/direction_finder/internal/config"
	"github.com/relabs-tech/direction_finder/internal/display"
	"github.com/relabs-tech/direction_finder/internal/navigation"
)

// addrBus redirects every transaction to addr; the ssd1306 driver always
// talks to 0x3C.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b *addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

// displayState holds the latest frame received from the navigator.
type displayState struct {
	mu    sync.RWMutex
	frame navigation.Frame
	have  bool
}

func (s *displayState) set(f navigation.Frame) {
	s.mu.Lock()
	s.frame, s.have = f, true
	s.mu.Unlock()
}

func (s *displayState) get() (navigation.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.have
}

// render picks the screen for the current state.
func (s *displayState) render() image.Image {
	f, ok := s.get()
	if !ok {
		return display.RenderWaiting()
	}
	return display.RenderNavigation(f)
}

func RunDisplay() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("display: config not initialised")
	}

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(&addrBus{Bus: bus, addr: cfg.DisplayI2CAddr}, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), display.RenderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	state := &displayState{}

	client, err := connectMQTT("display", cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON("display", client, cfg.TopicNav, state.set); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Display update loop
	ticker := time.NewTicker(cfg.DisplayInterval())
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for {
		select {
		case <-ctx.Done():
			log.Println("display: shutting down")
			if err := dev.Draw(dev.Bounds(), display.NewFrame(), image.Point{}); err != nil {
				log.Printf("display: error clearing: %v", err)
			}
			return dev.Halt()
		case <-ticker.C:
			if err := dev.Draw(dev.Bounds(), state.render(), image.Point{}); err != nil {
				log.Printf("display: error updating: %v", err)
			}
		}
	}
}
