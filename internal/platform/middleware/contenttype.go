package middleware

import (
	"mime"
	"net/http"

	"almoner/internal/transport/http/shared"
	dErrors "almoner/pkg/domain-errors"
)

// ContentTypeJSON rejects mutating requests whose body is not declared as
// JSON. Bodyless requests pass through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Content-Type must be application/json"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
