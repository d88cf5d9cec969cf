// Package server exposes the design engine as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"grna/core/design"
)

// MaxBodyBytes caps request bodies; a full batch of long sequences fits easily.
const MaxBodyBytes = 32 << 20

// Server routes API requests to the engine. Base holds the defaults every
// request starts from; requests may override system, filters and pool.
type Server struct {
	base   design.Options
	log    *slog.Logger
	router *chi.Mux
}

// New builds the router.
func New(base design.Options, log *slog.Logger) *Server {
	s := &Server{base: base, log: log, router: chi.NewRouter()}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/systems", s.handleSystems)
	s.router.Post("/design", s.handleDesign)
	s.router.Post("/batch", s.handleBatch)
	s.router.Post("/score", s.handleScore)
	s.router.Post("/offtargets", s.handleOffTargets)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// ListenAndServe serves on addr until ctx is done, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
