package http

import (
	"testing"
	"time"
)

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	limiter := NewRateLimiter(60, 2)
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatal("burst should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(60, 1)
	defer limiter.Stop()

	limiter.Allow("10.0.0.1")
	limiter.cleanup(time.Now())
	if limiter.clientCount() != 1 {
		t.Fatalf("active client removed")
	}

	limiter.cleanup(time.Now().Add(2 * clientIdleThreshold))
	if limiter.clientCount() != 0 {
		t.Errorf("idle client kept, count = %d", limiter.clientCount())
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewRateLimiter(60, 1)
	limiter.Stop()
	limiter.Stop()
}
