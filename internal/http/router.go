// Package httpapi assembles the public HTTP surface: middleware chain,
// operational endpoints, and the versioned ledger API.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ledgerhandler "almoner/internal/ledger/handler"
	"almoner/internal/platform/epoch"
	"almoner/internal/platform/metrics"
	"almoner/internal/platform/middleware"
	"almoner/internal/transport/http/shared"
)

// Deps carries everything the router mounts.
type Deps struct {
	Ledger   *ledgerhandler.Handler
	Verifier middleware.IdentityVerifier
	Epochs   epoch.Source
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewRouter builds the HTTP handler tree. Operational endpoints sit outside
// /v1 so probes and scrapes skip the API middleware.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestID,
		middleware.RequestTime,
		middleware.Logger(deps.Logger),
		middleware.Timeout(deps.Timeout),
		middleware.LatencyMiddleware(deps.Metrics),
	)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(
			middleware.ContentTypeJSON,
			middleware.Principal(deps.Verifier, deps.Logger),
			middleware.Epoch(deps.Epochs, deps.Logger),
		)
		deps.Ledger.Register(v1)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
