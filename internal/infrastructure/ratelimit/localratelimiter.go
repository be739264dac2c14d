package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalRateLimiter is a per-process token bucket per caller. It is used when
// Redis is disabled.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLocalRateLimiter(config Config) *LocalRateLimiter {
	l := &LocalRateLimiter{limiters: make(map[string]*rate.Limiter)}
	if config.Limit <= 0 || config.Window <= 0 {
		l.limit = rate.Inf
		return l
	}
	l.limit = rate.Every(config.Window / time.Duration(config.Limit))
	l.burst = config.Limit
	return l
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow(), nil
}
