// Copyright 2025 The FlowStack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package server runs the local preview server used by build --watch. It
// exposes the most recent build, a health check, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowstack/flowstack-go/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// Server serves the latest compiled payload. It is safe for concurrent use.
type Server struct {
	addr    string
	logger  *slog.Logger
	tracer  *observability.Tracer
	metrics *observability.Metrics

	mu       sync.RWMutex
	payload  []byte
	agent    string
	builtAt  time.Time
	buildErr string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracer records a span per request.
func WithTracer(tracer *observability.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithMetrics records request metrics and serves them at /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a Server listening on addr once started.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPayload publishes a successful build.
func (s *Server) SetPayload(agent string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = append([]byte(nil), data...)
	s.agent = agent
	s.builtAt = time.Now()
	s.buildErr = ""
}

// SetError records a failed build. The last good payload stays available.
func (s *Server) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.buildErr = ""
		return
	}
	s.buildErr = err.Error()
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/payload", s.handlePayload)
	r.Get("/status", s.handleStatus)
	r.Handle("/metrics", s.metrics.Handler())

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("Preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down preview server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePayload(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	data := s.payload
	s.mu.RUnlock()

	if data == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no successful build yet"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// status is the /status response body.
type status struct {
	Agent   string     `json:"agent,omitempty"`
	BuiltAt *time.Time `json:"built_at,omitempty"`
	Error   string     `json:"error,omitempty"`
	Ready   bool       `json:"ready"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	st := status{
		Agent: s.agent,
		Error: s.buildErr,
		Ready: s.payload != nil,
	}
	if !s.builtAt.IsZero() {
		built := s.builtAt
		st.BuiltAt = &built
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, st)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
