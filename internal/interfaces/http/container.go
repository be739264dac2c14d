package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/hopperkey/phatdev/internal/infrastructure/config"
	"github.com/hopperkey/phatdev/internal/infrastructure/scheduler"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers, and wires them together. The storage backend is opened (and
// closed) by the caller.
type Container struct {
	engine  *gin.Engine
	cfg     *config.Config
	log     logger.Interface
	storage Storage
	redis   *redis.Client

	scheduler *scheduler.SchedulerManager

	repos *repositories
	svcs  *services
	ucs   *allUseCases
	hdlrs *allHandlers
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(ctx context.Context, storage Storage, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		cfg:     cfg,
		log:     log,
		storage: storage,
	}

	repos, err := newRepositories(storage, log)
	if err != nil {
		return nil, err
	}
	c.repos = repos

	if err := c.initRedis(); err != nil {
		c.Shutdown()
		return nil, err
	}
	if err := c.initServices(); err != nil {
		c.Shutdown()
		return nil, err
	}
	if err := c.bootstrapAdmins(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	c.initUseCases()
	c.initHandlers()

	if err := c.initScheduler(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

// Start launches background jobs. Serving requests does not need it.
func (c *Container) Start() {
	if c.scheduler != nil {
		c.scheduler.Start()
	}
}

// Shutdown releases what the container opened itself.
func (c *Container) Shutdown() {
	if c.scheduler != nil {
		_ = c.scheduler.Shutdown()
		c.scheduler = nil
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
		c.redis = nil
	}
}
