package usecases

import (
	"context"

	"github.com/hopperkey/phatdev/internal/application/app/dto"
	"github.com/hopperkey/phatdev/internal/domain/application"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type ListAppsUseCase struct {
	repo   application.Repository
	logger logger.Interface
}

func NewListAppsUseCase(repo application.Repository, logger logger.Interface) *ListAppsUseCase {
	return &ListAppsUseCase{repo: repo, logger: logger}
}

func (uc *ListAppsUseCase) Execute(ctx context.Context) ([]*dto.ApplicationDTO, error) {
	apps, err := uc.repo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list applications", "error", err)
		return nil, apperrors.WrapInternal("failed to list applications", err)
	}
	return dto.ToApplicationDTOs(apps), nil
}

type CountAppsUseCase struct {
	repo   application.Repository
	logger logger.Interface
}

func NewCountAppsUseCase(repo application.Repository, logger logger.Interface) *CountAppsUseCase {
	return &CountAppsUseCase{repo: repo, logger: logger}
}

func (uc *CountAppsUseCase) Execute(ctx context.Context) (int64, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count applications", "error", err)
		return 0, apperrors.WrapInternal("failed to count applications", err)
	}
	return n, nil
}
