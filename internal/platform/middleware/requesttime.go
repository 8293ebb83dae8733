package middleware

import (
	"net/http"
	"time"

	"almoner/pkg/requestcontext"
)

// RequestTime captures one timestamp at the start of the request so every
// mutation inside it shares the same "now". CreatedAt, UpdatedAt, and
// IssuedAt across the records one operation touches must agree; separate
// time.Now() calls would drift.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
