package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xraph/radius"
	"github.com/xraph/radius/api"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Service  *radius.Service
	Registry *prometheus.Registry
}

// NewRouter mounts the API under the configured prefix next to the health
// and metrics endpoints.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(p.Logger),
		newHTTPMetrics(p.Registry).middleware,
		middleware.Recoverer,
		cors(p.Config.CORSDomain),
		middleware.RequestSize(p.Config.RequestSizeBytes),
	)
	if p.Config.RateLimit > 0 {
		r.Use(httprate.LimitByIP(p.Config.RateLimit, time.Minute))
	}

	r.Get("/healthz", healthHandler(p.Service))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))

	a := api.New(p.Service, nil, p.Config.APIPrefix)
	r.Handle(a.BasePath()+"/*", a.Handler())
	return r
}

func healthHandler(svc *radius.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if err := svc.Ping(r.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
