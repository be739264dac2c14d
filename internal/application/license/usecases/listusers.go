package usecases

import (
	"context"

	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// ListUsersUseCase lists one entry per key that has a bound device.
type ListUsersUseCase struct {
	repo   license.Repository
	clock  biztime.Clock
	logger logger.Interface
}

func NewListUsersUseCase(repo license.Repository, clock biztime.Clock, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{repo: repo, clock: clock, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]*dto.UserDTO, error) {
	keys, err := uc.repo.List(ctx, license.ListFilter{BoundOnly: true})
	if err != nil {
		uc.logger.Errorw("failed to list bound keys", "error", err)
		return nil, apperrors.WrapInternal("failed to list users", err)
	}

	now := uc.clock()
	users := make([]*dto.UserDTO, 0, len(keys))
	for _, k := range keys {
		users = append(users, dto.ToUserDTO(k, now))
	}
	return users, nil
}
