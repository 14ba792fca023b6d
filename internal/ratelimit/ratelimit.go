// Package ratelimit implements a fixed-window request limiter keyed by an
// opaque string (typically firm|user|route).
//
// The window is a hard fixed window, not a sliding one: a burst straddling
// a window boundary can admit up to twice the limit. That behavior is
// deliberate and relied upon by callers; do not "fix" it into a sliding
// window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// maxBuckets caps the number of tracked keys to prevent memory exhaustion.
const maxBuckets = 100_000

type bucket struct {
	count   int
	resetAt time.Time
}

// Decision is the outcome of one Check call, with the values callers need
// for X-RateLimit response headers.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter tracks fixed-window request counts per key. All state is owned
// by the instance; construct one per logical limit.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	now     func() time.Time
}

// New creates a Limiter allowing limit requests per window per key. A
// background goroutine reclaims expired buckets until ctx is cancelled.
func New(ctx context.Context, limit int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	go l.startCleanup(ctx)

	return l
}

// Check counts one request against key and reports whether it is allowed.
// The bucket is created lazily on the first request of a window; a request
// arriving at or after resetAt starts a fresh window.
func (l *Limiter) Check(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		if !ok && len(l.buckets) >= maxBuckets {
			// Bucket table full: deny rather than grow without bound.
			return Decision{Allowed: false, Limit: l.limit, Remaining: 0, ResetAt: now.Add(l.window)}
		}

		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}

	b.count++

	remaining := l.limit - b.count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   b.count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   b.resetAt,
	}
}

// startCleanup periodically evicts expired buckets. Eviction is
// opportunistic; Check re-creates any bucket it finds expired, so cleanup
// only bounds memory, never correctness.
func (l *Limiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				if !now.Before(b.resetAt) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
