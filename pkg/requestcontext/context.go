// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services. By keeping this package free
// of net/http dependencies, services can import only what they need without pulling
// in HTTP-related code.
//
// Usage in services (read values):
//
//	principal := requestcontext.Principal(ctx)
//	epoch := requestcontext.Epoch(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithPrincipal(ctx, principal)
//	ctx = requestcontext.WithEpoch(ctx, epoch)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithPrincipal(ctx, "donor-7")
package requestcontext

import (
	"context"
	"time"

	id "almoner/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	principalKey   struct{}
	epochKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyPrincipal   = principalKey{}
	ContextKeyEpoch       = epochKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Caller identity
// -----------------------------------------------------------------------------

// Principal retrieves the caller identity from the context.
// Returns the empty principal if not set; use OrAnonymous when recording.
func Principal(ctx context.Context) id.Principal {
	if p, ok := ctx.Value(ContextKeyPrincipal).(id.Principal); ok {
		return p
	}
	return ""
}

// WithPrincipal injects a caller identity into the context.
func WithPrincipal(ctx context.Context, principal id.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, principal)
}

// -----------------------------------------------------------------------------
// Logical epoch
// -----------------------------------------------------------------------------

// Epoch retrieves the logical epoch stamped on the current operation.
// Returns 0 if not set (non-HTTP contexts like workers, CLI, tests).
func Epoch(ctx context.Context) uint64 {
	if e, ok := ctx.Value(ContextKeyEpoch).(uint64); ok {
		return e
	}
	return 0
}

// WithEpoch injects a logical epoch into the context.
func WithEpoch(ctx context.Context, epoch uint64) context.Context {
	return context.WithValue(ctx, ContextKeyEpoch, epoch)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Workers that need consistent time within a batch operation
//   - CLI commands
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
