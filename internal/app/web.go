// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/direction_finder/internal/config"
	"github.com/relabs-tech/direction_finder/internal/metrics"
	"github.com/relabs-tech/direction_finder/internal/navigation"
)

const (
	wsWriteTimeout = 2 * time.Second
	wsBuffer       = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// frameHub holds the latest navigation frame and fans new ones out to
// WebSocket clients.
type frameHub struct {
	mu     sync.RWMutex
	latest navigation.Frame
	have   bool
	subs   map[chan navigation.Frame]struct{}
}

func newFrameHub() *frameHub {
	return &frameHub{subs: make(map[chan navigation.Frame]struct{})}
}

func (h *frameHub) publish(f navigation.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest, h.have = f, true
	for ch := range h.subs {
		select {
		case ch <- f:
		default:
			// slow client; it will catch up on the next frame
		}
	}
}

func (h *frameHub) latestFrame() (navigation.Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.have
}

func (h *frameHub) subscribe() (<-chan navigation.Frame, func()) {
	ch := make(chan navigation.Frame, wsBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// newWebMux wires the HTTP API. staticDir is served at / when non-empty.
func newWebMux(hub *frameHub, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// JSON API endpoint: latest navigation frame
	mux.HandleFunc("/api/navigation", func(w http.ResponseWriter, r *http.Request) {
		frame, ok := hub.latestFrame()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(frame); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws", hub.handleWS)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// handleWS streams every new frame to the client as JSON.
func (h *frameHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	metrics.ActiveWebSockets.Inc()
	defer metrics.ActiveWebSockets.Dec()

	frames, unsubscribe := h.subscribe()
	defer unsubscribe()

	// Reader loop only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(f navigation.Frame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(f)
	}

	if f, ok := h.latestFrame(); ok {
		if err := send(f); err != nil {
			return
		}
	}
	for {
		select {
		case <-closed:
			return
		case f := <-frames:
			if err := send(f); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	}
}

// RunWeb subscribes to TOPIC_NAV and serves the latest frame over HTTP and
// WebSocket.
func RunWeb() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("web: config not initialised")
	}

	hub := newFrameHub()

	client, err := connectMQTT("web", cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON("web", client, cfg.TopicNav, hub.publish); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(hub, "web"))
}
