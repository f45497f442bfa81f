// Package http implements the thin REST interface over the practice
// core. Transport concerns stay here: the core is driven through the
// application layer's commands and queries and knows nothing about
// HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/grindhub/grind-practice-hub/internal/domain/shared"
	"github.com/grindhub/grind-practice-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP interface over the practice core.
type Server struct {
	cfg      Config
	log      *logger.Logger
	handlers *Handlers
	srv      *http.Server
}

// NewServer creates the server and mounts all routes.
func NewServer(cfg Config, handlers *Handlers, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("http"))
	s := &Server{cfg: cfg, log: log, handlers: handlers}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handlers.Health)
	mux.HandleFunc("POST /api/v1/users/{id}/log", s.handlers.LogProblem)
	mux.HandleFunc("GET /api/v1/users/{id}/stats", s.handlers.Stats)
	mux.HandleFunc("GET /api/v1/users/{id}/streak", s.handlers.Streak)
	mux.HandleFunc("GET /api/v1/users/{id}/problems", s.handlers.Breakdown)
	mux.HandleFunc("GET /api/v1/users/{id}/chart", s.handlers.Chart)
	mux.HandleFunc("GET /api/v1/users/{id}/profile", s.handlers.Profile)
	mux.HandleFunc("GET /api/v1/users/{id}/random", s.handlers.RandomProblem)
	mux.HandleFunc("GET /api/v1/leaderboard", s.handlers.Leaderboard)
	mux.HandleFunc("GET /api/v1/problems/featured", s.handlers.Featured)

	handler := chain(mux,
		recoverMiddleware(log),
		requestIDMiddleware(),
		loggingMiddleware(log),
	)

	s.srv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Start begins serving. Blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", logger.String("addr", s.cfg.Addr()))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// errorBody is the wire shape of failures.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the domain error taxonomy onto HTTP statuses:
// user-correctable failures are 4xx, storage corruption is a 502-class
// condition distinct from "no data", everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsDuplicateEntry(err):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Kind: "duplicate_entry"})
	case shared.IsProblemNotFound(err), errors.Is(err, shared.ErrNoCandidates):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Kind: "not_found"})
	case shared.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "invalid_input"})
	case shared.IsStorageCorruption(err):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), Kind: "storage_corruption"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Kind: "internal"})
	}
}
