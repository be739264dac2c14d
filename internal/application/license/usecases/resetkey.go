package usecases

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/domain/license"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type ResetKeyCommand struct {
	Key string
}

// ResetKeyUseCase unbinds every device from a key.
type ResetKeyUseCase struct {
	mutator *keyMutator
	logger  logger.Interface
}

func NewResetKeyUseCase(repo license.Repository, locker KeyLocker, logger logger.Interface) *ResetKeyUseCase {
	return &ResetKeyUseCase{
		mutator: &keyMutator{repo: repo, locker: locker, logger: logger},
		logger:  logger,
	}
}

func (uc *ResetKeyUseCase) Execute(ctx context.Context, cmd ResetKeyCommand) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		return apperrors.NewValidationError("Key is required!")
	}

	unlock, err := uc.mutator.lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	found, err := uc.mutator.update(ctx, key, func(k *license.LicenseKey) bool {
		k.ResetDevices()
		return true
	})
	if err != nil {
		return err
	}
	if found {
		uc.logger.Infow("license key devices reset", "key", key)
	}
	return nil
}
