package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"quiz-api-service/internal/domain"
)

type ctxKey string

const ctxKeyClaims ctxKey = "claims"

// ClaimsFromContext returns the admin claims attached by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(*Claims)
	return c, ok
}

// RequireAdmin rejects requests without a live admin bearer token.
func RequireAdmin(g *Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				unauthorized(w, "token is missing")
				return
			}
			scheme, token, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "invalid token format")
				return
			}
			claims, err := g.Verify(r.Context(), strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					unauthorized(w, "token is invalid or expired")
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "request failed"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyClaims, claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
