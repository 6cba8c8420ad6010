// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvaluation(t *testing.T) {
	before := testutil.ToFloat64(evaluationsTotal)
	ObserveEvaluation(250*time.Microsecond, 1219.7)
	if got := testutil.ToFloat64(evaluationsTotal); got != before+1 {
		t.Fatalf("evaluations_total = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(distanceMeters); got != 1219.7 {
		t.Fatalf("distance_meters = %v", got)
	}
}

func TestEvaluationFailed(t *testing.T) {
	c := evaluationErrors.WithLabelValues(KindPosition)
	before := testutil.ToFloat64(c)
	EvaluationFailed(KindPosition)
	EvaluationFailed(KindPosition)
	if got := testutil.ToFloat64(c); got != before+2 {
		t.Fatalf("errors{position} = %v, want %v", got, before+2)
	}
}

func TestSetSampleAge(t *testing.T) {
	SetSampleAge(SourceGPS, 1500*time.Millisecond)
	if got := testutil.ToFloat64(sampleAge.WithLabelValues(SourceGPS)); got != 1.5 {
		t.Fatalf("gps age = %v", got)
	}
	SetSampleAge(SourceHeading, -1)
	if got := testutil.ToFloat64(sampleAge.WithLabelValues(SourceHeading)); got != -1 {
		t.Fatalf("heading age = %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveEvaluation(time.Millisecond, 5)
	ActiveWebSockets.Set(0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{
		"direction_navigator_evaluations_total",
		"direction_navigator_evaluate_seconds",
		"direction_navigator_distance_meters",
		"direction_web_active_websockets",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metric %s not exposed", name)
		}
	}
}
