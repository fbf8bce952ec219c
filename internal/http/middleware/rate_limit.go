package middleware

import (
	"net"
	"net/http"

	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

// RateLimitMiddleware throttles each client IP with its own token bucket.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.GetVisitor(ip).Allow() {
			log := logger.FromContext(r.Context())
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limit exceeded")
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
