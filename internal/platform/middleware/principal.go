package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "almoner/pkg/domain"
	"almoner/pkg/requestcontext"
)

// IdentityVerifier turns a bearer token into a caller identity.
type IdentityVerifier interface {
	Verify(tokenString string) (id.Principal, error)
}

// JWTVerifier validates HS256 identity tokens and uses the subject claim as
// the principal.
type JWTVerifier struct {
	signingKey []byte
}

// NewJWTVerifier creates a verifier for the given HMAC signing key.
func NewJWTVerifier(signingKey string) *JWTVerifier {
	return &JWTVerifier{signingKey: []byte(signingKey)}
}

// Verify parses and validates the token, returning its subject.
func (v *JWTVerifier) Verify(tokenString string) (id.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return id.Principal(claims.Subject), nil
}

// Principal records the caller's identity in the request context.
//
// Identity here is accountability, not authority: the value lands in credit
// and audit records, while authorization is decided solely by capability
// possession. The middleware is therefore permissive. No token, or a token
// that fails verification, leaves the caller anonymous instead of rejecting
// the request. Donations stay open to everyone; privileged operations fail
// later on the capability check, not here.
func Principal(verifier IdentityVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "identity token rejected, continuing as anonymous",
					"request_id", GetRequestID(ctx),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestcontext.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
