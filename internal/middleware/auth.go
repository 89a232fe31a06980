package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/telemedpro/telemed/backend/pkg/token"
	"github.com/telemedpro/telemed/backend/pkg/utils"
)

type claimsKey struct{}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth rejects requests without a valid bearer token. Browsers cannot set
// headers on WebSocket or EventSource requests, so a "token" query
// parameter is accepted as well.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := verifier.Verify(raw)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// ClaimsFromContext returns the claims stored by Auth.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*token.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if scheme, raw, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
