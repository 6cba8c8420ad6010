// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/direction_finder/internal/navigation"
)

func navFrame(distance float64) navigation.Frame {
	return navigation.Frame{
		Result: navigation.Result{
			CorrectedHeadingDeg: 101.3,
			BearingToTargetDeg:  14.9,
			DistanceMeters:      distance,
		},
		Reference: "toronto",
		GPSAgeMs:  -1,
	}
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestWebAPINavigation(t *testing.T) {
	hub := newFrameHub()
	srv := httptest.NewServer(newWebMux(hub, ""))
	defer srv.Close()

	if code, _ := get(t, srv, "/api/navigation"); code != http.StatusServiceUnavailable {
		t.Fatalf("before first frame: status %d", code)
	}

	hub.publish(navFrame(1219.7))
	code, body := get(t, srv, "/api/navigation")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["distance_m"] != 1219.7 || got["declination_ref"] != "toronto" || got["gps_age_ms"] != float64(-1) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestWebHealthAndMetrics(t *testing.T) {
	srv := httptest.NewServer(newWebMux(newFrameHub(), ""))
	defer srv.Close()

	if code, body := get(t, srv, "/healthz"); code != http.StatusOK || body != "ok\n" {
		t.Fatalf("healthz = %d %q", code, body)
	}
	code, body := get(t, srv, "/metrics")
	if code != http.StatusOK || !strings.Contains(body, "direction_web_active_websockets") {
		t.Fatalf("metrics = %d, missing gauge", code)
	}
}

func TestWebSocketStream(t *testing.T) {
	hub := newFrameHub()
	hub.publish(navFrame(100))

	srv := httptest.NewServer(newWebMux(hub, ""))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first navigation.Frame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first: %v", err)
	}
	if first.DistanceMeters != 100 {
		t.Fatalf("first frame distance %v, want latest (100)", first.DistanceMeters)
	}

	hub.publish(navFrame(42))
	var next navigation.Frame
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read next: %v", err)
	}
	if next.DistanceMeters != 42 {
		t.Fatalf("next frame distance %v, want 42", next.DistanceMeters)
	}
}

func TestFrameHubUnsubscribe(t *testing.T) {
	hub := newFrameHub()
	_, unsubscribe := hub.subscribe()
	if len(hub.subs) != 1 {
		t.Fatalf("subs = %d", len(hub.subs))
	}
	unsubscribe()
	if len(hub.subs) != 0 {
		t.Fatalf("subs after unsubscribe = %d", len(hub.subs))
	}
	// publishing with no subscribers must not block
	for i := 0; i < wsBuffer*2; i++ {
		hub.publish(navFrame(float64(i)))
	}
}
