package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"chatai/chatai/apperrors"
	"chatai/chatai/auth"
	"chatai/chatai/config"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware authenticates requests by re-validating the bearer
// token's signature and expiry. No session lookup happens: tokens are
// stateless.
func AuthMiddleware(cfg config.Config) func(http.Handler) http.Handler {
	secret := []byte(cfg.JWTSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeUnauthorized(w, "malformed authorization header")
				return
			}

			claims, err := auth.ParseToken(strings.TrimSpace(parts[1]), secret)
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized mirrors the gateway's error envelope, which the
// routes package cannot provide here without an import cycle.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"kind":    string(apperrors.Auth),
			"message": message,
		},
	})
}

// UserID extracts the authenticated user id set by AuthMiddleware.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}
