// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/zeno/internal/accessor"
	apihandler "github.com/newthinker/zeno/internal/api/handler/api"
	"github.com/newthinker/zeno/internal/api/middleware"
	"github.com/newthinker/zeno/internal/metrics"
	"github.com/newthinker/zeno/internal/storage/archive"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP server for the archive reader.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	APIKey         string
	MetricsEnabled bool
	MetricsPath    string
}

// Dependencies holds the components the routes are served from.
type Dependencies struct {
	Accessor *accessor.Accessor
	Metrics  *metrics.Registry
	Storage  archive.Storage // optional, enables archive listing
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Accessor == nil {
		return nil, fmt.Errorf("accessor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	auth := middleware.APIKeyAuth(cfg.APIKey)

	archiveHandler := apihandler.NewArchiveHandler(deps.Accessor)
	articlesHandler := apihandler.NewArticlesHandler(deps.Accessor)
	contentHandler := apihandler.NewContentHandler(deps.Accessor)

	// Control API (protected)
	s.mux.Handle("GET /api/v1/archive", auth(http.HandlerFunc(archiveHandler.Get)))
	s.mux.Handle("POST /api/v1/archive", auth(http.HandlerFunc(archiveHandler.Load)))
	s.mux.Handle("GET /api/v1/articles/next", auth(http.HandlerFunc(articlesHandler.Next)))
	s.mux.Handle("POST /api/v1/articles/reset", auth(http.HandlerFunc(articlesHandler.Reset)))
	if deps.Storage != nil {
		archivesHandler := apihandler.NewArchivesHandler(deps.Storage)
		s.mux.Handle("GET /api/v1/archives", auth(http.HandlerFunc(archivesHandler.List)))
	}

	// Article content (public, GET also answers HEAD)
	s.mux.HandleFunc("GET /content/{path...}", contentHandler.Get)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if cfg.MetricsEnabled && deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
