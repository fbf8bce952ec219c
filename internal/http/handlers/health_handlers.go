package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthHandler reports whether the ledger backend answers check.
// @Summary Liveness of the ledger backend
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func HealthHandler(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if check != nil {
			if err := check(ctx); err != nil {
				respond(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		respond(w, r, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
