package service

import (
	"testing"
	"time"
)

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := NewTokenBucket(1, 3) // rate=1/s, capacity=3
	defer tb.Stop()

	for i := 0; i < 3; i++ {
		if !tb.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	if tb.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	defer tb.Stop()

	if !tb.Allow("ip-a") {
		t.Fatal("ip-a first request should be allowed")
	}
	if tb.Allow("ip-a") {
		t.Fatal("ip-a second request should be denied")
	}
	if !tb.Allow("ip-b") {
		t.Fatal("ip-b first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	tb := NewTokenBucket(0, 2)
	defer tb.Stop()

	if !tb.Allow("k") || !tb.Allow("k") {
		t.Fatal("first two requests should be allowed")
	}
	if tb.Allow("k") {
		t.Fatal("third request should be denied (no refill)")
	}
	if got := tb.RetryAfter(); got != time.Minute {
		t.Fatalf("expected 1m retry-after for zero rate, got %v", got)
	}
}

func TestTokenBucket_SweepRemovesIdleKeys(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	defer tb.Stop()

	tb.Allow("old")
	tb.sweep(time.Now().Add(time.Second))

	if n := tb.size(); n != 0 {
		t.Fatalf("expected idle bucket to be swept, %d remain", n)
	}
}

func TestTokenBucket_StopIsIdempotent(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	tb.Stop()
	tb.Stop()
}
