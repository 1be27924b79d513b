package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket is an in-memory per-key rate limiter. Each key gets its own
// rate.Limiter; keys idle for longer than the idle TTL are swept by a
// background goroutine until Stop is called. It is safe for concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    rate.Limit
	capacity int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucket creates a rate limiter that allows bursts of up to capacity
// per key, refilling at perSecond tokens per second.
func NewTokenBucket(perSecond float64, capacity int) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		limit:    rate.Limit(perSecond),
		capacity: capacity,
		idleTTL:  10 * time.Minute,
		stop:     make(chan struct{}),
	}
	go tb.cleanup(5 * time.Minute)
	return tb
}

// Allow reports whether the key may proceed, consuming one token if so.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(tb.limit, tb.capacity)}
		tb.buckets[key] = b
	}
	b.lastSeen = time.Now()
	tb.mu.Unlock()

	return b.limiter.Allow()
}

// RetryAfter estimates how long until the key has a token again.
func (tb *TokenBucket) RetryAfter() time.Duration {
	if tb.limit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(tb.limit))
}

// Stop ends the background sweep. It is safe to call more than once.
func (tb *TokenBucket) Stop() {
	tb.stopOnce.Do(func() { close(tb.stop) })
}

func (tb *TokenBucket) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-tb.stop:
			return
		case <-ticker.C:
			tb.sweep(time.Now().Add(-tb.idleTTL))
		}
	}
}

func (tb *TokenBucket) sweep(cutoff time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for key, b := range tb.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(tb.buckets, key)
		}
	}
}

func (tb *TokenBucket) size() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}
