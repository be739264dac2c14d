package usecases

import (
	"context"

	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// GetAnalyticsUseCase counts keys per derived status. Each key lands in
// exactly one of active, banned, expired or (uncounted) inactive.
type GetAnalyticsUseCase struct {
	keyRepo license.Repository
	appRepo application.Repository
	clock   biztime.Clock
	logger  logger.Interface
}

func NewGetAnalyticsUseCase(keyRepo license.Repository, appRepo application.Repository, clock biztime.Clock, logger logger.Interface) *GetAnalyticsUseCase {
	return &GetAnalyticsUseCase{keyRepo: keyRepo, appRepo: appRepo, clock: clock, logger: logger}
}

func (uc *GetAnalyticsUseCase) Execute(ctx context.Context) (*dto.AnalyticsDTO, error) {
	keys, err := uc.keyRepo.List(ctx, license.ListFilter{})
	if err != nil {
		uc.logger.Errorw("failed to list keys for analytics", "error", err)
		return nil, apperrors.WrapInternal("failed to load analytics", err)
	}
	apps, err := uc.appRepo.Count(ctx)
	if err != nil {
		uc.logger.Errorw("failed to count applications", "error", err)
		return nil, apperrors.WrapInternal("failed to load analytics", err)
	}

	now := uc.clock()
	result := &dto.AnalyticsDTO{TotalKeys: len(keys), TotalApps: apps}
	for _, k := range keys {
		switch k.Status(now) {
		case license.StatusActive:
			result.ActiveKeys++
		case license.StatusBanned:
			result.BannedKeys++
		case license.StatusExpired:
			result.ExpiredKeys++
		}
	}
	return result, nil
}
