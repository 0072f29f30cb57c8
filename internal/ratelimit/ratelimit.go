// Package ratelimit implements a token-bucket limiter partitioned by key.
// The API layer keys it by client IP to throttle credential-bearing
// endpoints, so a guessing loop against one address never starves other
// readers on the network.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands each key its own token bucket. Buckets are
// created lazily on first use and live for the process lifetime, which
// is fine at the scale of per-address login throttling.
type KeyedRateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// New builds a limiter refilling at rps tokens per second per key, with
// burst tokens available up front.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether key may proceed right now, consuming a token if
// so. Request handlers use this and reply 429 on false.
func (l *KeyedRateLimiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Wait blocks until key may proceed or ctx ends. Meant for outbound
// calls that should be paced rather than refused.
func (l *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

func (l *KeyedRateLimiter) bucket(key string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another request for the same key may have raced us here.
	if b, ok = l.buckets[key]; ok {
		return b
	}

	b = rate.NewLimiter(l.limit, l.burst)
	l.buckets[key] = b
	return b
}
