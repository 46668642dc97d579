package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sendit/internal/auth"
	"sendit/internal/http/respond"
	"sendit/internal/logx"
)

// TokenHeader carries the raw access token.
const TokenHeader = "x-access-token"

type tokenVerifier interface {
	Verify(raw string) (int64, error)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the authenticated user id.
func WithPrincipal(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalFrom returns the authenticated user id stored by RequireToken.
func PrincipalFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(principalKey{}).(int64)
	return id, ok && id > 0
}

// RequireToken verifies the access token and stores the principal in the request context.
func RequireToken(v tokenVerifier, logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(TokenHeader))
			if raw == "" {
				respond.Error(logger, w, r, http.StatusBadRequest, "token not found")
				return
			}

			userID, err := v.Verify(raw)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), userID)))
			case errors.Is(err, auth.ErrTokenExpired):
				respond.Error(logger, w, r, http.StatusForbidden, "token has expired")
			default:
				respond.Error(logger, w, r, http.StatusForbidden, "token not valid")
			}
		})
	}
}
