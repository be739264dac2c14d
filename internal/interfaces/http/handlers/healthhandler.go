package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/logger"
	"github.com/hopperkey/phatdev/internal/shared/version"
)

const healthCheckTimeout = 2 * time.Second

// StorePinger reports whether the persistence backend is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  StorePinger
	driver string
	logger logger.Interface
}

func NewHealthHandler(store StorePinger, driver string, logger logger.Interface) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, logger: logger}
}

// Root answers GET / with the static banner.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, constants.HealthBanner)
}

// Healthz answers GET /healthz after pinging the store.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warnw("health check failed", "driver", h.driver, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"storage": h.driver,
			"version": version.Current(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"storage": h.driver,
		"version": version.Current(),
	})
}
