package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hopperkey/phatdev/internal/interfaces/http/middleware"
)

// Router owns the gin engine built by the container.
type Router struct {
	c *Container
}

// NewRouter creates a router over a wired container.
func NewRouter(c *Container) *Router {
	return &Router{c: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	engine := r.c.engine
	hdlrs := r.c.hdlrs

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(r.c.log.Named("http")))
	engine.Use(middleware.Recovery(r.c.log.Named("http")))
	engine.Use(middleware.CORS(r.c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/", hdlrs.healthHandler.Root)
	engine.GET("/healthz", hdlrs.healthHandler.Healthz)

	if m := r.c.svcs.metrics; m != nil {
		path := r.c.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(m.Handler()))
	}

	chain := make([]gin.HandlerFunc, 0, 5)
	if hdlrs.rateLimiter != nil {
		chain = append(chain, hdlrs.rateLimiter.Limit())
	}
	chain = append(chain, hdlrs.authHandler.Bind(), middleware.ActionMetrics(r.c.svcs.recorder))
	if hdlrs.permissionMiddleware != nil {
		chain = append(chain, hdlrs.permissionMiddleware.RequireActionPermission())
	}
	chain = append(chain, hdlrs.authHandler.Handle)

	engine.POST("/auth", chain...)
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.c.engine
}
