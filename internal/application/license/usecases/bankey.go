package usecases

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/domain/license"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type BanKeyCommand struct {
	Key string
}

// BanKeyUseCase marks a key banned. Banning an unknown key succeeds.
type BanKeyUseCase struct {
	mutator *keyMutator
	logger  logger.Interface
}

func NewBanKeyUseCase(repo license.Repository, locker KeyLocker, logger logger.Interface) *BanKeyUseCase {
	return &BanKeyUseCase{
		mutator: &keyMutator{repo: repo, locker: locker, logger: logger},
		logger:  logger,
	}
}

func (uc *BanKeyUseCase) Execute(ctx context.Context, cmd BanKeyCommand) error {
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
		if k.IsBanned() {
			return false
		}
		k.Ban()
		return true
	})
	if err != nil {
		return err
	}

	if found {
		uc.logger.Infow("license key banned", "key", key)
	} else {
		uc.logger.Debugw("ban requested for unknown key", "key", key)
	}
	return nil
}
