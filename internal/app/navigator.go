// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/direction_finder/internal/compass"
	"github.com/relabs-tech/direction_finder/internal/config"
	"github.com/relabs-tech/direction_finder/internal/declination"
	"github.com/relabs-tech/direction_finder/internal/geo"
	"github.com/relabs-tech/direction_finder/internal/gps"
	"github.com/relabs-tech/direction_finder/internal/metrics"
	"github.com/relabs-tech/direction_finder/internal/navigation"
)

// navigatorTick is the evaluation rate (10 Hz).
const navigatorTick = 100 * time.Millisecond

// Navigator keeps the latest GPS and heading samples and turns them into
// navigation frames. Samples arrive from MQTT callbacks while Tick runs on
// the main loop.
type Navigator struct {
	engine     *navigation.Engine
	corrector  *declination.Corrector
	defaultPos geo.Point
	defaultHdg float64
	staleAfter time.Duration

	mu         sync.RWMutex
	position   geo.Point
	positionAt time.Time
	havePos    bool
	heading    float64
	headingAt  time.Time
	haveHdg    bool
}

// NewNavigator wires an engine to the fallback inputs used before the first
// samples arrive.
func NewNavigator(engine *navigation.Engine, corrector *declination.Corrector, defaultPos geo.Point, defaultHeading float64, staleAfter time.Duration) *Navigator {
	return &Navigator{
		engine:     engine,
		corrector:  corrector,
		defaultPos: defaultPos,
		defaultHdg: defaultHeading,
		staleAfter: staleAfter,
	}
}

// UpdateFix stores the fix position. Void and out-of-range fixes are
// rejected and the previous position stays in use.
func (n *Navigator) UpdateFix(f gps.Fix, at time.Time) error {
	p, err := f.Point()
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.position, n.positionAt, n.havePos = p, at, true
	n.mu.Unlock()
	return nil
}

// UpdateHeading stores a raw magnetic heading.
func (n *Navigator) UpdateHeading(r compass.Reading, at time.Time) error {
	if math.IsNaN(r.HeadingDeg) || math.IsInf(r.HeadingDeg, 0) {
		return navigation.ErrInvalidHeading
	}
	n.mu.Lock()
	n.heading, n.headingAt, n.haveHdg = r.HeadingDeg, at, true
	n.mu.Unlock()
	return nil
}

// Tick evaluates the engine against the latest inputs.
func (n *Navigator) Tick(now time.Time) (navigation.Frame, error) {
	n.mu.RLock()
	pos, hdg := n.defaultPos, n.defaultHdg
	gpsAge, hdgAge := time.Duration(-1), time.Duration(-1)
	if n.havePos {
		pos, gpsAge = n.position, now.Sub(n.positionAt)
	}
	if n.haveHdg {
		hdg, hdgAge = n.heading, now.Sub(n.headingAt)
	}
	n.mu.RUnlock()

	metrics.SetSampleAge(metrics.SourceGPS, gpsAge)
	metrics.SetSampleAge(metrics.SourceHeading, hdgAge)

	start := time.Now()
	res, err := n.engine.Evaluate(hdg, pos)
	if err != nil {
		metrics.EvaluationFailed(errorKind(err))
		return navigation.Frame{}, err
	}
	metrics.ObserveEvaluation(time.Since(start), res.DistanceMeters)

	ref, _ := n.corrector.Lookup(pos)
	return navigation.Frame{
		Result:        res,
		Time:          now.UTC(),
		Position:      pos,
		RawHeadingDeg: hdg,
		Reference:     ref.Name,
		GPSAgeMs:      ageMs(gpsAge),
		HeadingAgeMs:  ageMs(hdgAge),
		Stale:         gpsAge > n.staleAfter || hdgAge > n.staleAfter,
	}, nil
}

func ageMs(d time.Duration) int64 {
	if d < 0 {
		return -1
	}
	return d.Milliseconds()
}

func errorKind(err error) string {
	var posErr *geo.InvalidPositionError
	switch {
	case errors.As(err, &posErr):
		return metrics.KindPosition
	case errors.Is(err, navigation.ErrInvalidHeading):
		return metrics.KindHeading
	default:
		return metrics.KindIndex
	}
}

// RunNavigator subscribes to the GPS and heading topics and publishes one
// navigation frame per tick until SIGINT/SIGTERM.
func RunNavigator() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("navigator: config not initialised")
	}

	engine, corrector, err := loadEngine(cfg)
	if err != nil {
		return fmt.Errorf("navigator: %w", err)
	}
	nav := NewNavigator(engine, corrector, cfg.DefaultPosition(), cfg.DefaultHeading, cfg.StaleDuration())

	client, err := connectMQTT("navigator", cfg.MQTTBroker, cfg.MQTTClientIDNavigator)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON("navigator", client, cfg.TopicGPS, func(f gps.Fix) {
		if err := nav.UpdateFix(f, time.Now()); err != nil {
			log.Printf("navigator: skipping fix %s/%s: %v", f.Date, f.Time, err)
		}
	}); err != nil {
		return err
	}
	if err := subscribeJSON("navigator", client, cfg.TopicHeading, func(r compass.Reading) {
		if err := nav.UpdateHeading(r, time.Now()); err != nil {
			log.Printf("navigator: skipping heading %v: %v", r.HeadingDeg, err)
		}
	}); err != nil {
		return err
	}

	if cfg.MetricsPort > 0 {
		go serveMetrics(cfg.MetricsPort)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return nav.run(ctx, client, cfg.TopicNav)
}

func (n *Navigator) run(ctx context.Context, client mqtt.Client, topic string) error {
	ticker := time.NewTicker(navigatorTick)
	defer ticker.Stop()

	log.Printf("navigator: publishing frames on %s every %v", topic, navigatorTick)
	var lastErr string
	for {
		select {
		case <-ctx.Done():
			log.Println("navigator: shutting down")
			return nil
		case now := <-ticker.C:
			frame, err := n.Tick(now)
			if err != nil {
				// Log each distinct error once.
				if err.Error() != lastErr {
					log.Printf("navigator: evaluate: %v", err)
					lastErr = err.Error()
				}
				continue
			}
			lastErr = ""
			if err := publishJSON(client, topic, true, frame); err != nil {
				log.Printf("navigator: publish error: %v", err)
			}
		}
	}
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	addr := fmt.Sprintf(":%d", port)
	log.Printf("navigator: metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("navigator: metrics server: %v", err)
	}
}
