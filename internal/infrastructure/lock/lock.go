// Package lock serializes work on a single license key.
package lock

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when the lock could not be taken before the
// context was done or the wait budget ran out.
var ErrLockTimeout = errors.New("timed out waiting for key lock")

// KeyLocker hands out exclusive per-key locks. The returned unlock must be
// called exactly once.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
