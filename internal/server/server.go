// Package server exposes the review HTTP API:
//
//	GET  /              liveness marker
//	POST /ai/get-review forward {"code": ...} to the AI capability
//
// Every origin is allowed through CORS. The server keeps no state between
// requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/hay-kot/codereview/internal/core/config"
	"github.com/hay-kot/codereview/internal/core/logging"
	"github.com/hay-kot/codereview/internal/provider"
)

const shutdownTimeout = 10 * time.Second

// Server is the review HTTP server.
type Server struct {
	cfg      config.ServerConfig
	reviewer provider.Reviewer
	log      zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	srv      *http.Server
}

// New creates a Server that forwards review requests to reviewer.
func New(cfg config.ServerConfig, reviewer provider.Reviewer) *Server {
	return &Server{
		cfg:      cfg,
		reviewer: reviewer,
		log:      logging.Component("server"),
	}
}

// Router returns the HTTP handler with all routes and middleware mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestContext)
	r.Use(requestLogger(logging.Component("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	if s.cfg.MaxBodyBytes > 0 {
		r.Use(bodySizeLimit(s.cfg.MaxBodyBytes))
	}

	r.Get("/", s.handleHealth)
	r.Route("/ai", func(r chi.Router) {
		r.Post("/get-review", s.handleGetReview)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.listener = listener
	s.srv = srv
	s.mu.Unlock()

	s.log.Info().
		Str("addr", listener.Addr().String()).
		Str("provider", s.reviewer.Name()).
		Msg("review server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down review server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound listener address, or empty before ListenAndServe.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
