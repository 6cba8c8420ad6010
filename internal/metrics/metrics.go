// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics holds the Prometheus collectors shared by the navigator
// and web processes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation error kinds.
const (
	KindPosition = "position"
	KindHeading  = "heading"
	KindIndex    = "index"
)

// Sample sources.
const (
	SourceGPS     = "gps"
	SourceHeading = "heading"
)

var (
	evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "direction",
		Subsystem: "navigator",
		Name:      "evaluations_total",
		Help:      "Total successful navigation evaluations",
	})

	evaluationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "direction",
		Subsystem: "navigator",
		Name:      "evaluation_errors_total",
		Help:      "Failed navigation evaluations by cause",
	}, []string{"kind"})

	evaluateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "direction",
		Subsystem: "navigator",
		Name:      "evaluate_seconds",
		Help:      "Time spent in one navigation evaluation",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
	})

	distanceMeters = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "direction",
		Subsystem: "navigator",
		Name:      "distance_meters",
		Help:      "Distance to the nearest catalog point at the last evaluation",
	})

	sampleAge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "direction",
		Subsystem: "navigator",
		Name:      "sample_age_seconds",
		Help:      "Age of the latest input sample; -1 while on defaults",
	}, []string{"source"})

	// ActiveWebSockets tracks open /ws connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "direction",
		Subsystem: "web",
		Name:      "active_websockets",
		Help:      "Number of active WebSocket connections",
	})
)

// ObserveEvaluation records one successful evaluation.
func ObserveEvaluation(took time.Duration, distance float64) {
	evaluationsTotal.Inc()
	evaluateDuration.Observe(took.Seconds())
	distanceMeters.Set(distance)
}

// EvaluationFailed records a failed evaluation of the given kind.
func EvaluationFailed(kind string) {
	evaluationErrors.WithLabelValues(kind).Inc()
}

// SetSampleAge records how old the latest sample from source is. A negative
// age means no sample has arrived yet.
func SetSampleAge(source string, age time.Duration) {
	if age < 0 {
		sampleAge.WithLabelValues(source).Set(-1)
		return
	}
	sampleAge.WithLabelValues(source).Set(age.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
