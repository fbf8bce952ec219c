package middleware

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller identity in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		token, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		username, role := auth.Claims(token)
		ctx := auth.WithIdentity(r.Context(), auth.Identity{Username: username, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
