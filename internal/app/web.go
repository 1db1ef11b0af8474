// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/relabs-tech/ar_navigator/internal/config"
	"github.com/relabs-tech/ar_navigator/internal/metrics"
	"github.com/relabs-tech/ar_navigator/internal/navigation"
	"github.com/relabs-tech/ar_navigator/internal/places"
)

const (
	clientBuffer = 16
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSResponse answers a websocket command.
type WSResponse struct {
	Type    string `json:"type"` // ack, error
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
}

// WebServer serves the latest navigation frame over HTTP and pushes every
// new frame to websocket clients.
type WebServer struct {
	mu   sync.RWMutex
	last navigation.Snapshot
	have bool

	clientsMu sync.Mutex
	clients   map[*wsClient]struct{}

	commands     Publisher
	topicCommand string
	metrics      *metrics.Collector
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewWebServer creates a server forwarding commands to topicCommand on
// commands. commands may be nil for a read-only server.
func NewWebServer(commands Publisher, topicCommand string, m *metrics.Collector) *WebServer {
	return &WebServer{
		clients:      make(map[*wsClient]struct{}),
		commands:     commands,
		topicCommand: topicCommand,
		metrics:      m,
	}
}

// Update stores a navigation frame received as JSON and broadcasts it.
func (s *WebServer) Update(payload []byte) error {
	var snap navigation.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("navigation unmarshal: %w", err)
	}

	s.mu.Lock()
	s.last = snap
	s.have = true
	s.mu.Unlock()

	s.broadcast(payload)
	return nil
}

func (s *WebServer) latest() (navigation.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.have
}

// Handler routes the API, the websocket and the metrics endpoint.
func (s *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/navigation", s.handleNavigation)
	mux.HandleFunc("GET /api/orientation", s.handleOrientation)
	mux.HandleFunc("GET /api/places", s.handlePlaces)
	mux.HandleFunc("POST /api/command", s.handleCommand)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

func (s *WebServer) handleNavigation(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

func (s *WebServer) handleOrientation(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap.Pose)
}

// handlePlaces serves the device, the placements and the route as GeoJSON.
func (s *WebServer) handlePlaces(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.latest()
	if !ok || !snap.HasLocation {
		http.Error(w, "no location yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(places.FeatureCollection(snap.Location, snap.Placements, &snap.Route)); err != nil {
		log.Warn().Err(err).Msg("geojson encode error")
	}
}

func (s *WebServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.forward(cmd); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ErrUnknownAction) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// forward publishes cmd for the navigator.
func (s *WebServer) forward(cmd Command) error {
	switch cmd.Action {
	case ActionWaypoint, ActionClearTrip, ActionFuser:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	if s.commands == nil {
		return errors.New("commands are disabled")
	}
	return publishJSON(s.commands, s.topicCommand, cmd)
}

// handleWS sends the latest frame, then every new one. Messages from the
// client are commands.
func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, clientBuffer)}
	if snap, ok := s.latest(); ok {
		if payload, err := json.Marshal(snap); err == nil {
			c.send <- payload
		}
	}
	s.addClient(c)
	go c.writeLoop()

	// Main message loop
	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			break
		}

		resp := WSResponse{Type: "ack", Action: cmd.Action}
		if err := s.forward(cmd); err != nil {
			resp = WSResponse{Type: "error", Action: cmd.Action, Message: err.Error()}
		}
		if payload, err := json.Marshal(resp); err == nil {
			c.queue(payload)
		}
	}

	s.removeClient(c)
}

func (s *WebServer) addClient(c *wsClient) {
	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.clientsMu.Unlock()
	s.metrics.SetWebClients(n)
}

func (s *WebServer) removeClient(c *wsClient) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	n := len(s.clients)
	s.clientsMu.Unlock()
	s.metrics.SetWebClients(n)
}

func (s *WebServer) broadcast(payload []byte) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		c.queue(payload)
	}
}

// queue drops the message when the client is too slow.
func (c *wsClient) queue(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

func (c *wsClient) writeLoop() {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("json encode error")
	}
}

// RunWeb serves the navigation frames from MQTT on WEB_SERVER_PORT until
// ctx is done.
func RunWeb(ctx context.Context, cfg *config.Config, m *metrics.Collector) error {
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	srv := NewWebServer(&mqttPublisher{client: client, metrics: m}, cfg.TopicCommand, m)
	if err := subscribe(client, cfg.TopicNavigation, func(payload []byte) {
		if err := srv.Update(payload); err != nil {
			log.Warn().Err(err).Msg("navigation frame rejected")
		}
	}); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("web server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
