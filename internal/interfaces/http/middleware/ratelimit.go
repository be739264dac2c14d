package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hopperkey/phatdev/internal/infrastructure/ratelimit"
	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/logger"
	"github.com/hopperkey/phatdev/internal/shared/utils"
)

// RateLimiter throttles POST /auth per client IP. The backing limiter is
// either in-process or shared through Redis.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	window  time.Duration
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		window:  window,
		logger:  logger,
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, err := rl.limiter.Allow(c.Request.Context(), "ip:"+clientIP)
		if err != nil {
			// A limiter outage must not take the license endpoint down with it
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		if !allowed {
			rl.logger.Warnw("rate limit exceeded", "client_ip", clientIP)
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(int(rl.window.Seconds())))
			utils.AbortWithError(c, constants.ErrMsgTooManyRequests)
			return
		}

		c.Next()
	}
}
