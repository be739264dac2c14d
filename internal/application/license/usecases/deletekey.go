package usecases

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/domain/license"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type DeleteKeyCommand struct {
	Key string
}

type DeleteKeyUseCase struct {
	repo   license.Repository
	locker KeyLocker
	logger logger.Interface
}

func NewDeleteKeyUseCase(repo license.Repository, locker KeyLocker, logger logger.Interface) *DeleteKeyUseCase {
	return &DeleteKeyUseCase{repo: repo, locker: locker, logger: logger}
}

func (uc *DeleteKeyUseCase) Execute(ctx context.Context, cmd DeleteKeyCommand) error {
	key := strings.TrimSpace(cmd.Key)
	if key == "" {
		return apperrors.NewValidationError("Key is required!")
	}

	unlock, err := uc.locker.Lock(ctx, key)
	if err != nil {
		return apperrors.WrapInternal("failed to lock key", err)
	}
	defer unlock()

	if err := uc.repo.Delete(ctx, key); err != nil {
		uc.logger.Errorw("failed to delete key", "key", key, "error", err)
		return apperrors.WrapInternal("failed to delete key", err)
	}

	uc.logger.Infow("license key deleted", "key", key)
	return nil
}
