package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex

	limit = rate.Limit(1) // 1 request/sec
	burst = 3
)

// Configure sets the rate and burst given to visitors seen from now on.
func Configure(perSecond float64, b int) {
	mu.Lock()
	defer mu.Unlock()
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if b > 0 {
		burst = b
	}
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop forgets visitors idle for more than ttl until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evictIdle(ttl)
		}
	}
}

func evictIdle(ttl time.Duration) int {
	mu.Lock()
	defer mu.Unlock()

	evicted := 0
	for ip, v := range visitors {
		if time.Since(v.lastSeen) > ttl {
			delete(visitors, ip)
			evicted++
		}
	}
	return evicted
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}
