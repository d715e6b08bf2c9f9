package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket guarding how often a watched tree may re-run.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a bucket refilled at r tokens per second holding at most
// b tokens. A non-positive r never refills.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), b),
	}
}

// Allow consumes n tokens if they are available now.
func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}

// Available reports how long until one token is free, without consuming it.
// It returns -1 when the bucket never refills.
func (l *Limiter) Available() time.Duration {
	tokens := l.inner.TokensAt(time.Now())
	if tokens >= 1 {
		return 0
	}
	limit := float64(l.inner.Limit())
	if limit <= 0 {
		return -1
	}
	return time.Duration((1 - tokens) / limit * float64(time.Second))
}
