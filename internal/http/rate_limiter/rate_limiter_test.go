package rate_limiter

import (
	"testing"
	"time"
)

func TestGetVisitorReturnsSameLimiter(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)

	a := GetVisitor("10.0.0.1")
	b := GetVisitor("10.0.0.1")
	if a != b {
		t.Fatal("expected the same limiter for the same visitor")
	}
	if GetVisitor("10.0.0.2") == a {
		t.Fatal("expected distinct limiters per visitor")
	}
}

func TestConfigureBurst(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)
	t.Cleanup(func() { Configure(1, 3) })

	Configure(0.001, 2)
	l := GetVisitor("10.0.0.3")

	if !l.Allow() || !l.Allow() {
		t.Fatal("expected the first two requests within burst")
	}
	if l.Allow() {
		t.Fatal("expected the third request to be limited")
	}
}

func TestEvictIdle(t *testing.T) {
	t.Cleanup(CleanupAllVisitors)

	GetVisitor("10.0.0.4")
	mu.Lock()
	visitors["10.0.0.4"].lastSeen = time.Now().Add(-10 * time.Minute)
	mu.Unlock()
	GetVisitor("10.0.0.5")

	if n := evictIdle(5 * time.Minute); n != 1 {
		t.Fatalf("expected 1 evicted visitor, got %d", n)
	}
	mu.Lock()
	_, stale := visitors["10.0.0.4"]
	_, fresh := visitors["10.0.0.5"]
	mu.Unlock()
	if stale || !fresh {
		t.Errorf("expected only the idle visitor to be evicted")
	}
}
