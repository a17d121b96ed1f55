// Package server assembles the HTTP router: trivia routes, probes and
// metrics behind the shared middleware stack.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// ReadinessCheck reports whether backing dependencies can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// RouterConfig carries everything the router mounts. Trivia may be nil,
// in which case only probes and metrics are served.
type RouterConfig struct {
	CORS     config.CORS
	Logger   zerolog.Logger
	Trivia   *trivia.HTTPHandler
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Ready    ReadinessCheck
}

// NewRouter wires middleware and routes. The returned mux also backs the
// Lambda adapter.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.RealIP)
	r.Use(Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	r.Use(Instrument(cfg.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.RespondNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.RespondMethodNotAllowed(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", readyHandler(cfg.Ready))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if cfg.Trivia != nil {
		cfg.Trivia.Routes(r)
	}
	return r
}

func readyHandler(check ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger := logging.FromContext(r.Context())
				logger.Warn().Err(err).Msg("readiness check failed")
				httperrors.RespondServiceUnavailable(w)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// NewHTTPServer binds handler to the configured listen address.
func NewHTTPServer(cfg *config.App, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
