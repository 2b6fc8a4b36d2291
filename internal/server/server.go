// Package server provides the HTTP surface of the Veena camera piano: the
// layout and engine APIs, the camera preview stream, and the note event
// WebSocket.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/veena/internal/capture"
	"github.com/ayusman/veena/internal/server/api"
	"github.com/ayusman/veena/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Controller api.Controller
	Events     *EventHub
}

// Server is the HTTP server for the Veena application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a Server with the given configuration. Nil components leave
// their routes unregistered.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		layoutHandler := api.NewLayoutHandler(s.config.Store, s.config.Controller)
		s.mux.Handle("/api/layouts", layoutHandler)
		s.mux.Handle("/api/layouts/", layoutHandler)
	}

	if s.config.Controller != nil {
		engineHandler := api.NewEngineHandler(s.config.Controller)
		s.mux.Handle("/api/engine/config", engineHandler)

		transformHandler := api.NewTransformHandler(s.config.Controller, s.config.Store)
		s.mux.Handle("/api/engine/transform", transformHandler)
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": strings.TrimSpace(time.Since(s.start).String()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
