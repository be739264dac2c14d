package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// Logger logs one line per request. Dispatched actions are logged with the
// action name, the caller and the envelope outcome.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"body_size", c.Writer.Size(),
		}

		if requestID := c.GetString(constants.ContextKeyRequestID); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if userID, exists := c.Get(constants.ContextKeyUserID); exists {
			args = append(args, "user_id", userID)
		}
		if action := c.GetString(constants.ContextKeyAction); action != "" {
			args = append(args, "action", action)
		}
		if success, exists := c.Get(constants.ContextKeyActionSuccess); exists {
			args = append(args, "success", success)
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Errorw("HTTP request completed with server error", args...)
		case status >= 400:
			log.Warnw("HTTP request completed with client error", args...)
		case c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/metrics":
			log.Debugw("HTTP request completed successfully", args...)
		default:
			log.Infow("HTTP request completed successfully", args...)
		}
	}
}
