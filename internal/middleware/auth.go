package middleware

import (
	"context"
	"net/http"
	"strings"

	"app/internal/logger"
	"app/internal/model"
)

// Injected key type to avoid context collisions
type contextKey string

const UserContextKey = contextKey("user")

// TokenVerifier validates a bearer credential and yields the identity claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.IdentityClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token before any
// business logic runs, and embeds the decoded claims into the context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logger.New()
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Error().Msg("Authorization header missing")
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Error().Msg("Invalid authorization header")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				logger.Error().Msgf("Invalid token: %+v", err)
				http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the identity claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*model.IdentityClaims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*model.IdentityClaims)
	if !ok || claims == nil || claims.SubjectID == "" {
		return nil, false
	}
	return claims, true
}
