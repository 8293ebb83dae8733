package middleware

import (
	"log/slog"
	"net/http"

	"almoner/internal/platform/epoch"
	"almoner/internal/transport/http/shared"
	dErrors "almoner/pkg/domain-errors"
	"almoner/pkg/requestcontext"
)

// Epoch stamps one logical epoch onto every mutating request. All audit
// records an operation emits share that epoch. Reads pass through unstamped:
// they emit nothing, and skipping them keeps the counter from advancing on
// traffic that never mutates.
//
// Failing to obtain an epoch fails the request. An unstamped mutation would
// emit records that cannot be ordered against the rest of the stream.
func Epoch(source epoch.Source, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			value, err := source.Next(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "epoch source unavailable",
					"request_id", GetRequestID(ctx),
					"error", err,
				)
				shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "epoch source unavailable"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithEpoch(ctx, value)))
		})
	}
}
