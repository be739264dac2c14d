package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/id"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type CreateAppCommand struct {
	Name      string
	CreatedBy string
}

type CreateAppResult struct {
	Name   string
	APIKey string
}

type CreateAppUseCase struct {
	repo      application.Repository
	generator APIKeyGenerator
	clock     biztime.Clock
	logger    logger.Interface
}

func NewCreateAppUseCase(repo application.Repository, generator APIKeyGenerator, clock biztime.Clock, logger logger.Interface) *CreateAppUseCase {
	return &CreateAppUseCase{repo: repo, generator: generator, clock: clock, logger: logger}
}

func (uc *CreateAppUseCase) Execute(ctx context.Context, cmd CreateAppCommand) (*CreateAppResult, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("App name is required!")
	}

	apiKey, err := uc.generator.Generate(id.PrefixAPIKey)
	if err != nil {
		return nil, apperrors.WrapInternal("failed to generate api key", err)
	}

	app, err := application.NewApplication(name, apiKey, cmd.CreatedBy, uc.clock())
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.repo.Create(ctx, app); err != nil {
		if errors.Is(err, application.ErrDuplicateName) {
			return nil, apperrors.NewConflictError("App name already exists!")
		}
		uc.logger.Errorw("failed to save application", "name", name, "error", err)
		return nil, apperrors.WrapInternal("failed to save application", err)
	}

	uc.logger.Infow("application created", "name", name, "created_by", cmd.CreatedBy)
	return &CreateAppResult{Name: app.Name(), APIKey: app.APIKey()}, nil
}
