package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"almoner/internal/platform/metrics"
)

// LatencyMiddleware records request duration and in-flight counts. The route
// label uses the chi pattern, not the raw path, to keep cardinality bounded.
func LatencyMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := m.TrackInFlight()
			defer done()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, rec.status, start)
		})
	}
}
