package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

// maxGenerateAttempts bounds regeneration when a new key collides.
const maxGenerateAttempts = 3

type CreateKeyCommand struct {
	// ApplicationRef is the application's API key or name.
	ApplicationRef string
	Prefix         string
	Days           int
	DeviceLimit    int
}

type CreateKeyResult struct {
	Key         string
	Application string
	ExpiresAt   time.Time
}

type CreateKeyUseCase struct {
	keyRepo       license.Repository
	appRepo       application.Repository
	generator     license.KeyGenerator
	defaultPrefix string
	clock         biztime.Clock
	logger        logger.Interface
}

func NewCreateKeyUseCase(
	keyRepo license.Repository,
	appRepo application.Repository,
	generator license.KeyGenerator,
	defaultPrefix string,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateKeyUseCase {
	if defaultPrefix == "" {
		defaultPrefix = license.DefaultPrefix
	}
	return &CreateKeyUseCase{
		keyRepo:       keyRepo,
		appRepo:       appRepo,
		generator:     generator,
		defaultPrefix: defaultPrefix,
		clock:         clock,
		logger:        logger,
	}
}

func (uc *CreateKeyUseCase) Execute(ctx context.Context, cmd CreateKeyCommand) (*CreateKeyResult, error) {
	ref := strings.TrimSpace(cmd.ApplicationRef)
	if ref == "" {
		return nil, apperrors.NewValidationError("Application is required!")
	}
	if cmd.Days < 1 || cmd.Days > license.MaxDays {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Days must be between 1 and %d!", license.MaxDays))
	}
	prefix := strings.TrimSpace(cmd.Prefix)
	if prefix == "" {
		prefix = uc.defaultPrefix
	}

	app, err := resolveApplication(ctx, uc.appRepo, ref)
	if err != nil {
		uc.logger.Errorw("failed to resolve application", "ref", ref, "error", err)
		return nil, apperrors.WrapInternal("failed to resolve application", err)
	}
	if app == nil {
		return nil, apperrors.NewNotFoundError("Application not found!")
	}

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		value, err := uc.generator.Generate(prefix)
		if err != nil {
			return nil, apperrors.WrapInternal("failed to generate key", err)
		}

		k, err := license.NewLicenseKey(value, app.APIKey(), prefix, cmd.Days, cmd.DeviceLimit, uc.clock())
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}

		err = uc.keyRepo.Create(ctx, k)
		if errors.Is(err, license.ErrDuplicateKey) {
			uc.logger.Warnw("generated key collided, regenerating", "attempt", attempt)
			continue
		}
		if err != nil {
			uc.logger.Errorw("failed to save key", "error", err)
			return nil, apperrors.WrapInternal("failed to save key", err)
		}

		uc.logger.Infow("license key created",
			"key", k.Key(),
			"application", app.Name(),
			"days", cmd.Days,
			"device_limit", k.DeviceLimit())

		return &CreateKeyResult{
			Key:         k.Key(),
			Application: app.APIKey(),
			ExpiresAt:   k.ExpiresAt(),
		}, nil
	}

	return nil, apperrors.NewConflictError("could not generate a unique key")
}

// resolveApplication accepts either the API key or the name.
func resolveApplication(ctx context.Context, repo application.Repository, ref string) (*application.Application, error) {
	app, err := repo.GetByAPIKey(ctx, ref)
	if err != nil || app != nil {
		return app, err
	}
	return repo.GetByName(ctx, ref)
}
