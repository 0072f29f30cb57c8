package api

import (
	"time"

	"github.com/bookhiveapp/bookhive-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a rate limiter expressed as requests per interval.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// NewLoginRateLimiter returns the limiter applied to credential-bearing
// auth endpoints, keyed by client IP. Generous enough for a household,
// tight enough to blunt online guessing.
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(20, time.Minute, 10)
}
