// Package server exposes the batch executor over HTTP. One POST carries one
// event; the response body is the batch outcome, with the outcome's own
// multi-status code (200 full success, 207 partial) as the HTTP status.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aryankumar/gridrun/internal/batch"
	"github.com/aryankumar/gridrun/internal/event"
	"github.com/aryankumar/gridrun/internal/notify"
)

// maxBodyBytes bounds the accepted event size
const maxBodyBytes = 1 << 20

// Server handles batch execution requests
type Server struct {
	httpServer   *http.Server
	listener     net.Listener
	orchestrator *batch.Orchestrator
	normalizer   *event.Normalizer
	notifier     *notify.Notifier
	logger       *slog.Logger
}

// New creates a batch server listening on addr
func New(addr string, orchestrator *batch.Orchestrator, normalizer *event.Normalizer, notifier *notify.Notifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		orchestrator: orchestrator,
		normalizer:   normalizer,
		notifier:     notifier,
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /batches", s.handleBatch)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
		// Tasks have no per-task timeout, so writes must outlive slow batches
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      15 * time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Start begins listening and serving in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln

	s.logger.Info("batch server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, useful when listening on :0
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping batch server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// handleBatch runs one batch per request. Per-task and per-payload
// failures surface only through the outcome counts; 4xx/5xx is reserved
// for transport-level problems with the request itself.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	ev, err := event.Parse(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if ev.Debug {
		s.handleDebugForward(w, r.Context(), body)
		return
	}

	payloads, err := s.normalizer.Normalize(r.Context(), ev)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to normalize event: %w", err))
		return
	}

	outcome := s.orchestrator.Run(r.Context(), payloads)

	s.writeJSON(w, outcome.StatusCode, outcome)
}

// handleDebugForward short-circuits execution and forwards the raw event
func (s *Server) handleDebugForward(w http.ResponseWriter, ctx context.Context, body []byte) {
	s.logger.Info("debug event, forwarding to webhook")

	if err := s.notifier.Forward(ctx, body); err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Errorf("failed to forward debug event: %w", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"forwarded": true,
	})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
