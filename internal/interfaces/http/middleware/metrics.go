package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hopperkey/phatdev/internal/shared/constants"
)

type actionRecorder interface {
	ObserveAction(action string, success bool, elapsed time.Duration)
}

// ActionMetrics records the outcome and latency of every dispatched action,
// including ones rejected by the permission guard.
func ActionMetrics(recorder actionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		action := c.GetString(constants.ContextKeyAction)
		if action == "" {
			return
		}
		recorder.ObserveAction(action, c.GetBool(constants.ContextKeyActionSuccess), time.Since(start))
	}
}
