package testutil

import (
	"net/http"

	id "almoner/pkg/domain"
	"almoner/pkg/requestcontext"
)

// WithPrincipal stamps a caller identity on the request context, simulating
// what the principal middleware does for a verified bearer token.
func WithPrincipal(req *http.Request, principal string) *http.Request {
	ctx := requestcontext.WithPrincipal(req.Context(), id.Principal(principal))
	return req.WithContext(ctx)
}

// WithEpoch stamps a logical epoch on the request context, simulating the
// epoch middleware.
func WithEpoch(req *http.Request, epoch uint64) *http.Request {
	ctx := requestcontext.WithEpoch(req.Context(), epoch)
	return req.WithContext(ctx)
}

// WithRequestID stamps a request ID on the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}

// WithCapabilityToken sets the capability bearer header from its parts.
func WithCapabilityToken(req *http.Request, capabilityID, secret string) *http.Request {
	req.Header.Set("X-Capability-Token", capabilityID+"."+secret)
	return req
}
