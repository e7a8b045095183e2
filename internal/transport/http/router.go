package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/light-bringer/catalog-listing/internal/app/listing/contracts"
)

// RouterConfig wires the HTTP API.
type RouterConfig struct {
	Engine contracts.ListingEngine
	Logger *zap.Logger
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	// Ready reports backend readiness for /readyz. Nil is always ready.
	Ready func(ctx context.Context) error
	// RequestTimeout bounds each API request. Zero disables it.
	RequestTimeout time.Duration
}

// NewRouter builds the chi router:
//
//	GET /api/v1/listing   filtered, sorted page with badges and facets
//	GET /api/v1/facets    facets for ?q=
//	GET /healthz          liveness
//	GET /readyz           readiness
//	GET /metrics          Prometheus metrics
func NewRouter(cfg RouterConfig) http.Handler {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := NewListingHandler(cfg.Engine, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				WriteProblem(w, Problem{
					Type:     ProblemTypeUnavailable,
					Title:    "Service Unavailable",
					Status:   http.StatusServiceUnavailable,
					Detail:   "catalog backend is not ready",
					Instance: r.URL.Path,
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Get("/listing", h.Listing)
		r.Get("/facets", h.Facets)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, Problem{
			Type:     ProblemTypeNotFound,
			Title:    "Not Found",
			Status:   http.StatusNotFound,
			Instance: r.URL.Path,
		})
	})
	return r
}
