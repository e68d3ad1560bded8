// Package http is the web shell: the chi route tree, its middleware chain
// and the HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sabdamanthan/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/handlers"
	"github.com/turtacn/sabdamanthan/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.  Nil handlers leave their
// routes unregistered.
type RouterConfig struct {
	// Handlers
	PageHandler   *handlers.PageHandler
	APIHandler    *handlers.APIHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	CORSMiddleware *middleware.CORSMiddleware
	Logging        middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
	MaxBodySize      int64
}

// NewRouter constructs the complete HTTP route tree from the given configuration.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)
	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.MaxBodySize))
	}

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	registerPageRoutes(r, cfg.PageHandler)
	registerAPIRoutes(r, cfg.APIHandler)

	return r
}

// registerPageRoutes mounts the server-rendered page and its form posts.
func registerPageRoutes(r chi.Router, h *handlers.PageHandler) {
	if h == nil {
		return
	}
	r.Get("/", h.Index)
	r.Post("/lang", h.Lang)
	r.Route("/panels", func(pr chi.Router) {
		pr.Post("/fill-mask/select", h.Select)
		pr.Post("/{task}", h.Submit)
	})
}

// registerAPIRoutes mounts the JSON API under /api/v1.
func registerAPIRoutes(r chi.Router, h *handlers.APIHandler) {
	if h == nil {
		return
	}
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/tags/{task}", h.Tags)
		api.Post("/{task}", h.Predict)
	})
}
