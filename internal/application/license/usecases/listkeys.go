package usecases

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type ListKeysQuery struct {
	// ApplicationRef optionally narrows the list to one application, given
	// by API key or name.
	ApplicationRef string
}

type ListKeysUseCase struct {
	keyRepo license.Repository
	appRepo application.Repository
	clock   biztime.Clock
	logger  logger.Interface
}

func NewListKeysUseCase(keyRepo license.Repository, appRepo application.Repository, clock biztime.Clock, logger logger.Interface) *ListKeysUseCase {
	return &ListKeysUseCase{keyRepo: keyRepo, appRepo: appRepo, clock: clock, logger: logger}
}

func (uc *ListKeysUseCase) Execute(ctx context.Context, query ListKeysQuery) ([]*dto.KeyDTO, error) {
	filter := license.ListFilter{}

	if ref := strings.TrimSpace(query.ApplicationRef); ref != "" {
		filter.Applications = []string{ref}
		app, err := resolveApplication(ctx, uc.appRepo, ref)
		if err != nil {
			return nil, apperrors.WrapInternal("failed to resolve application", err)
		}
		if app != nil {
			filter.Applications = appendMissing(app.KeyRefs(), ref)
		}
	}

	keys, err := uc.keyRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list keys", "error", err)
		return nil, apperrors.WrapInternal("failed to list keys", err)
	}
	return dto.ToKeyDTOs(keys, uc.clock()), nil
}

func appendMissing(refs []string, ref string) []string {
	for _, r := range refs {
		if r == ref {
			return refs
		}
	}
	return append(refs, ref)
}
