package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/api"
	"github.com/tendant/fixture-content/pkg/fixturecontent/config"
)

// HTTPServer wraps the fixture provider for HTTP access
type HTTPServer struct {
	provider *fixturecontent.Provider
	config   Config
	fixtures *config.Config
	registry *prometheus.Registry
	metrics  *api.Metrics
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(provider *fixturecontent.Provider, cfg Config, fixtures *config.Config) *HTTPServer {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &HTTPServer{
		provider: provider,
		config:   cfg,
		fixtures: fixtures,
		registry: registry,
		metrics:  api.NewMetrics(registry, provider),
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(api.RecoveryMiddleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(api.MetricsMiddleware(s.metrics))

	if s.config.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, HEAD, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/health", s.handleHealth)
	r.Post("/admin/reload", s.handleReload)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	handler := api.NewItemHandler(s.provider, api.WithDefaultLanguage(s.fixtures.DefaultLanguage))
	r.Mount("/api/v1", handler.Routes())

	return r
}

// HealthResponse is the response body for the health check
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
	Items       int    `json:"items"`
}

func (s *HTTPServer) health() HealthResponse {
	var items int
	s.provider.Do(func(p *fixturecontent.Provider) {
		items = p.Len()
	})
	return HealthResponse{
		Status:      "healthy",
		Environment: s.config.Environment,
		Database:    s.fixtures.DatabaseName,
		Items:       items,
	}
}

// Health check endpoint
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.health())
}

// Reload endpoint, reloads every configured source
func (s *HTTPServer) handleReload(w http.ResponseWriter, r *http.Request) {
	s.provider.Reload(r.Context())
	render.JSON(w, r, s.health())
}
