package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopperkey/phatdev/internal/shared/logger"
)

func exerciseMutualExclusion(t *testing.T, locker KeyLocker) {
	t.Helper()
	const workers = 20

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "VIP-SAME0001")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	exerciseMutualExclusion(t, NewLocalLocker(16))
}

func TestLocalLocker_ContextDone(t *testing.T) {
	locker := NewLocalLocker(1)
	unlock, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "b")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestLocalLocker_ReleaseAllowsNext(t *testing.T) {
	locker := NewLocalLocker(4)
	for i := 0; i < 3; i++ {
		unlock, err := locker.Lock(context.Background(), "k")
		require.NoError(t, err)
		unlock()
	}
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	exerciseMutualExclusion(t, NewRedisLocker(client, 5*time.Second, 5*time.Second, logger.NewNopLogger()))
}
