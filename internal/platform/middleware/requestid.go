package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"almoner/pkg/requestcontext"
)

// HeaderRequestID carries the request ID in both directions: honored when the
// caller supplies one, echoed on every response.
const HeaderRequestID = "X-Request-ID"

// RequestID tags each request with a unique ID for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
