package http

import (
	"github.com/hopperkey/phatdev/internal/interfaces/http/handlers"
	"github.com/hopperkey/phatdev/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler   *handlers.AuthHandler
	healthHandler *handlers.HealthHandler

	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
}

func (c *Container) initHandlers() {
	hdlrs := &allHandlers{
		authHandler: handlers.NewAuthHandler(handlers.AuthHandlerDeps{
			CreateKey:    c.ucs.createKeyUC,
			ValidateKey:  c.ucs.validateKeyUC,
			BanKey:       c.ucs.banKeyUC,
			ResetKey:     c.ucs.resetKeyUC,
			DeleteKey:    c.ucs.deleteKeyUC,
			ListKeys:     c.ucs.listKeysUC,
			GetKey:       c.ucs.getKeyUC,
			ListUsers:    c.ucs.listUsersUC,
			GetAnalytics: c.ucs.getAnalyticsUC,
			CreateApp:    c.ucs.createAppUC,
			DeleteApp:    c.ucs.deleteAppUC,
			ListApps:     c.ucs.listAppsUC,
			CountApps:    c.ucs.countAppsUC,
			Permissions:  c.svcs.permissionSvc,
		}, c.log.Named("dispatcher")),
		healthHandler: handlers.NewHealthHandler(c.repos.pinger, c.storage.Driver, c.log.Named("health")),
	}

	if c.cfg.Auth.EnforceRoles {
		hdlrs.permissionMiddleware = middleware.NewPermissionMiddleware(c.svcs.permissionSvc, c.log.Named("guard"))
	}
	if c.svcs.rateLimiter != nil {
		hdlrs.rateLimiter = middleware.NewRateLimiter(c.svcs.rateLimiter, c.cfg.RateLimit.Window, c.log.Named("ratelimit"))
	}

	c.hdlrs = hdlrs
}
