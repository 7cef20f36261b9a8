// Package web serves the dashboard page and its JSON API.
package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"TWStockDesk/internal/collector"
	"TWStockDesk/internal/metrics"
	"TWStockDesk/internal/model"
	"TWStockDesk/internal/recorder"
)

// DashboardBuilder builds the dashboard for one symbol.
type DashboardBuilder interface {
	Build(ctx context.Context, input string) (*model.Dashboard, error)
}

// NewsProvider returns the latest tagged headlines.
type NewsProvider interface {
	Latest(ctx context.Context) []model.NewsItem
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Builder  DashboardBuilder
	News     NewsProvider
	Symbols  *collector.Symbols
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
	Logger   arbor.ILogger
}

// Server manages the HTTP server and routes.
type Server struct {
	deps      Deps
	logger    arbor.ILogger
	templates *template.Template
	router    *http.ServeMux
	server    *http.Server
}

// New creates the HTTP server listening on addr.
func New(deps Deps, addr string) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}

	s := &Server{
		deps:      deps,
		logger:    deps.Logger,
		templates: tmpl,
	}
	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	s.handle(mux, "GET /{$}", "page", s.handlePage)
	s.handle(mux, "GET /api/dashboard", "api_dashboard", s.handleDashboardAPI)
	s.handle(mux, "GET /api/news", "api_news", s.handleNewsAPI)
	s.handle(mux, "GET /api/symbols", "api_symbols", s.handleSymbolsAPI)
	s.handle(mux, "GET /api/history", "api_history", s.handleHistoryAPI)
	s.handle(mux, "GET /healthz", "healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.deps.Metrics.Handler())
	return mux
}

// handle registers h and counts its responses under route.
func (s *Server) handle(mux *http.ServeMux, pattern, route string, h http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		h(rw, r)
		s.deps.Metrics.ObserveHTTP(route, rw.statusCode)
	}))
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
