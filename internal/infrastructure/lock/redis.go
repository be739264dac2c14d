package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hopperkey/phatdev/internal/shared/logger"
)

const (
	redisKeyPrefix = "keyserver:lock:"
	retryInterval  = 25 * time.Millisecond
)

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker takes the local stripe first and then a Redis lease, so
// replicas sharing one database also serialize on the key.
type RedisLocker struct {
	client *redis.Client
	local  *LocalLocker
	ttl    time.Duration
	wait   time.Duration
	logger logger.Interface
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, log logger.Interface) *RedisLocker {
	return &RedisLocker{
		client: client,
		local:  NewLocalLocker(defaultStripes),
		ttl:    ttl,
		wait:   wait,
		logger: log,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	unlockLocal, err := l.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			if ctx.Err() != nil {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("failed to acquire redis lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			unlockLocal()
			return nil, ErrLockTimeout
		}
	}

	return func() {
		// release with a fresh context; the caller's may already be done
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warnw("failed to release redis lock", "key", key, "error", err)
		}
		unlockLocal()
	}, nil
}
