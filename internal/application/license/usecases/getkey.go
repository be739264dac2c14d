package usecases

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type GetKeyQuery struct {
	Key string
}

type GetKeyUseCase struct {
	repo   license.Repository
	clock  biztime.Clock
	logger logger.Interface
}

func NewGetKeyUseCase(repo license.Repository, clock biztime.Clock, logger logger.Interface) *GetKeyUseCase {
	return &GetKeyUseCase{repo: repo, clock: clock, logger: logger}
}

func (uc *GetKeyUseCase) Execute(ctx context.Context, query GetKeyQuery) (*dto.KeyDTO, error) {
	key := strings.TrimSpace(query.Key)
	if key == "" {
		return nil, apperrors.NewNotFoundError(license.MsgKeyLookupMissing)
	}

	k, err := uc.repo.GetByKey(ctx, key)
	if err != nil {
		uc.logger.Errorw("failed to load key", "key", key, "error", err)
		return nil, apperrors.WrapInternal("failed to load key", err)
	}
	if k == nil {
		return nil, apperrors.NewNotFoundError(license.MsgKeyLookupMissing)
	}
	return dto.ToKeyDTO(k, uc.clock()), nil
}
