package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/hopperkey/phatdev/internal/domain/license"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// maxWriteAttempts bounds re-reads after a version conflict.
const maxWriteAttempts = 3

// keyMutator applies read-modify-write cycles to one key under its lock.
type keyMutator struct {
	repo   license.Repository
	locker KeyLocker
	logger logger.Interface
	// onConflict is called for every lost compare-and-swap.
	onConflict func()
}

// lock takes the per-key lock or fails with an internal error.
func (m *keyMutator) lock(ctx context.Context, key string) (func(), error) {
	unlock, err := m.locker.Lock(ctx, key)
	if err != nil {
		m.logger.Errorw("failed to lock key", "key", key, "error", err)
		return nil, apperrors.WrapInternal("failed to lock key", err)
	}
	return unlock, nil
}

// update loads key and hands it to fn. When fn reports a change the key is
// written back; a version conflict re-reads and re-runs fn. It returns false
// when the key does not exist. The caller must hold the key lock.
func (m *keyMutator) update(ctx context.Context, key string, fn func(k *license.LicenseKey) bool) (bool, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		k, err := m.repo.GetByKey(ctx, key)
		if err != nil {
			m.logger.Errorw("failed to load key", "key", key, "error", err)
			return false, apperrors.WrapInternal("failed to load key", err)
		}
		if k == nil {
			return false, nil
		}
		if !fn(k) {
			return true, nil
		}

		err = m.repo.Update(ctx, k)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, license.ErrVersionConflict) {
			m.logger.Errorw("failed to save key", "key", key, "error", err)
			return false, apperrors.WrapInternal("failed to save key", err)
		}

		m.logger.Warnw("key changed underneath, retrying", "key", key, "attempt", attempt)
		if m.onConflict != nil {
			m.onConflict()
		}
	}
	return false, apperrors.NewConflictError(
		"key was modified concurrently, try again",
		fmt.Sprintf("gave up after %d attempts", maxWriteAttempts),
	)
}
