package ratelimit

import (
	"context"
	"time"
)

// Config is a request budget per caller over a sliding window.
type Config struct {
	Limit  int
	Window time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
