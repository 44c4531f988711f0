// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/newthinker/pricedash/internal/api/handler/api"
	"github.com/newthinker/pricedash/internal/api/handler/web"
	"github.com/newthinker/pricedash/internal/api/job"
	"github.com/newthinker/pricedash/internal/api/middleware"
	"github.com/newthinker/pricedash/internal/api/response"
	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/metrics"
)

// StreamPath is the websocket endpoint publishing new snapshots.
const StreamPath = "/api/v1/stream"

// Server represents the HTTP server for pricedash
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
	stream     *apihandler.StreamHandler
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	APIKey         string
	MetricsEnabled bool
	MetricsPath    string
	StreamEnabled  bool
	MaxClients     int
	// TemplatesDir overrides the embedded templates when set.
	TemplatesDir string
}

// DashboardService publishes dashboard snapshots.
type DashboardService interface {
	Latest() (*dashboard.Snapshot, bool)
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
	Trigger()
	Subscribe() (<-chan *dashboard.Snapshot, func())
}

// Dependencies holds the services the HTTP handlers need
type Dependencies struct {
	Dashboard DashboardService
	Trainer   apihandler.Trainer
	Layouts   *layout.Registry
	Jobs      *job.Store
	Metrics   *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Dashboard == nil {
		return nil, fmt.Errorf("dashboard service is required")
	}
	if deps.Layouts == nil {
		deps.Layouts = layout.DefaultRegistry()
	}
	if deps.Jobs == nil {
		deps.Jobs = job.NewStore(100, time.Hour)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	handler = metrics.LoggingMiddleware(logger)(handler)

	s := &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler: handler,
			// Websocket connections outlive any write deadline.
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
		mux:    mux,
		deps:   deps,
	}

	// Set up routes
	if err := s.setupRoutes(cfg); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) error {
	// The page cannot present an API key, so it falls back to polling when
	// the stream is protected.
	streamPath := ""
	if cfg.StreamEnabled && cfg.APIKey == "" {
		streamPath = StreamPath
	}

	// Web UI routes
	webHandler, err := web.NewHandler(cfg.TemplatesDir, s.deps.Dashboard, web.Options{StreamPath: streamPath})
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", webHandler.Dashboard)
	s.mux.HandleFunc("GET /charts/{name}", webHandler.Chart)
	s.mux.HandleFunc("GET /partials/charts", webHandler.Charts)

	// Public routes
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(s.deps.Metrics, promhttp.HandlerOpts{}))
	}

	// API v1 routes (protected)
	auth := middleware.APIKeyAuth(cfg.APIKey)
	protected := func(pattern string, h http.HandlerFunc) {
		s.mux.Handle(pattern, auth(h))
	}

	dashboardHandler := apihandler.NewDashboardHandler(s.deps.Dashboard)
	protected("GET /api/v1/dashboard", dashboardHandler.Get)
	protected("GET /api/v1/summary", dashboardHandler.Summary)
	protected("GET /api/v1/charts/{name}", dashboardHandler.Chart)
	protected("POST /api/v1/refresh", dashboardHandler.Refresh)

	layoutsHandler := apihandler.NewLayoutsHandler(s.deps.Layouts, s.deps.Metrics)
	protected("GET /api/v1/layouts", layoutsHandler.List)
	protected("POST /api/v1/layouts/{archetype}", layoutsHandler.Compose)

	if s.deps.Trainer != nil {
		trainingHandler := apihandler.NewTrainingHandler(s.deps.Trainer, s.deps.Jobs, s.deps.Dashboard, s.logger)
		protected("POST /api/v1/training", trainingHandler.Start)
		protected("GET /api/v1/training", trainingHandler.List)
		protected("GET /api/v1/training/{id}", trainingHandler.Get)
		protected("POST /api/v1/sample-data", trainingHandler.SampleData)
	}

	if cfg.StreamEnabled {
		s.stream = apihandler.NewStreamHandler(s.deps.Dashboard, cfg.MaxClients, s.logger, s.deps.Metrics)
		protected("GET "+StreamPath, s.stream.Serve)
	}

	return nil
}

// Handler returns the server's root handler, middleware included.
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
	if s.stream != nil {
		s.stream.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, ready := s.deps.Dashboard.Latest()
	response.JSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  ready,
	})
}
