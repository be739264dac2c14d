package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	permissionApp "github.com/hopperkey/phatdev/internal/application/permission"
	"github.com/hopperkey/phatdev/internal/infrastructure/lock"
	"github.com/hopperkey/phatdev/internal/infrastructure/metrics"
	infraPermission "github.com/hopperkey/phatdev/internal/infrastructure/permission"
	"github.com/hopperkey/phatdev/internal/infrastructure/ratelimit"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	sharedConfig "github.com/hopperkey/phatdev/internal/shared/config"
	"github.com/hopperkey/phatdev/internal/shared/id"
)

const (
	apiKeyPrefix     = "AK"
	localLockStripes = 256
	defaultTokenLen  = 8
	defaultAPIKeyLen = 10
	redisPingTimeout = 5 * time.Second
)

// services holds the infrastructure services shared by use cases and
// middleware.
type services struct {
	locker          lock.KeyLocker
	rateLimiter     ratelimit.RateLimiter
	metrics         *metrics.Metrics
	recorder        metrics.Recorder
	enforcer        *infraPermission.Enforcer
	permissionSvc   *permissionApp.Service
	keyGenerator    id.TokenGenerator
	apiKeyGenerator apiKeyGenerator
}

// apiKeyGenerator renders "AK-XXXXXXXXXX" regardless of the prefix asked for.
type apiKeyGenerator struct {
	tokens id.TokenGenerator
}

func (g apiKeyGenerator) Generate(_ string) (string, error) {
	return g.tokens.Generate(apiKeyPrefix)
}

func (c *Container) initRedis() error {
	needRedis := c.cfg.Redis.Enabled || c.cfg.Lock.Backend == sharedConfig.LockBackendRedis
	if !needRedis {
		return nil
	}

	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", c.cfg.Redis.GetAddr(), err)
	}
	c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())
	return nil
}

func (c *Container) initServices() error {
	svcs := &services{}

	switch c.cfg.Lock.Backend {
	case sharedConfig.LockBackendRedis:
		svcs.locker = lock.NewRedisLocker(c.redis, c.cfg.Lock.TTL, c.cfg.Lock.Wait, c.log.Named("lock"))
	case sharedConfig.LockBackendLocal, "":
		svcs.locker = lock.NewLocalLocker(localLockStripes)
	default:
		return fmt.Errorf("unsupported lock backend %q", c.cfg.Lock.Backend)
	}

	if c.cfg.RateLimit.Enabled {
		limitCfg := ratelimit.Config{Limit: c.cfg.RateLimit.Limit, Window: c.cfg.RateLimit.Window}
		if c.redis != nil {
			svcs.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis, limitCfg)
		} else {
			svcs.rateLimiter = ratelimit.NewLocalRateLimiter(limitCfg)
		}
	}

	if c.cfg.Metrics.Enabled {
		svcs.metrics = metrics.New()
		svcs.recorder = svcs.metrics
	} else {
		svcs.recorder = metrics.Nop()
	}

	enforcer, err := infraPermission.NewEnforcer(c.log.Named("enforcer"))
	if err != nil {
		return fmt.Errorf("failed to build permission enforcer: %w", err)
	}
	svcs.enforcer = enforcer
	svcs.permissionSvc = permissionApp.NewService(c.repos.permissionRepo, enforcer, biztime.SystemClock, c.log.Named("permission"))

	tokenLen := c.cfg.License.TokenLength
	if tokenLen <= 0 {
		tokenLen = defaultTokenLen
	}
	apiKeyLen := c.cfg.License.APIKeyLength
	if apiKeyLen <= 0 {
		apiKeyLen = defaultAPIKeyLen
	}
	svcs.keyGenerator = id.NewTokenGenerator(tokenLen)
	svcs.apiKeyGenerator = apiKeyGenerator{tokens: id.NewTokenGenerator(apiKeyLen)}

	c.svcs = svcs
	return nil
}

// bootstrapAdmins grants admin to every configured user id.
func (c *Container) bootstrapAdmins(ctx context.Context) error {
	if len(c.cfg.Auth.BootstrapAdmins) == 0 {
		return nil
	}
	if err := c.svcs.permissionSvc.BootstrapAdmins(ctx, c.cfg.Auth.BootstrapAdmins); err != nil {
		return fmt.Errorf("failed to bootstrap admins: %w", err)
	}
	return nil
}
