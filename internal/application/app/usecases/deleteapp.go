package usecases

import (
	"context"
	"strings"

	"github.com/hopperkey/phatdev/internal/domain/application"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type DeleteAppCommand struct {
	Name string
	// APIRef is an extra key reference to cascade on, as sent by older
	// dashboards alongside the name.
	APIRef string
}

type DeleteAppResult struct {
	RemovedKeys int64
}

// DeleteAppUseCase removes an application and every key pointing at it.
// Deleting an unknown application still cascades on APIRef.
type DeleteAppUseCase struct {
	repo   application.Repository
	logger logger.Interface
}

func NewDeleteAppUseCase(repo application.Repository, logger logger.Interface) *DeleteAppUseCase {
	return &DeleteAppUseCase{repo: repo, logger: logger}
}

func (uc *DeleteAppUseCase) Execute(ctx context.Context, cmd DeleteAppCommand) (*DeleteAppResult, error) {
	name := strings.TrimSpace(cmd.Name)
	apiRef := strings.TrimSpace(cmd.APIRef)
	if name == "" && apiRef == "" {
		return nil, apperrors.NewValidationError("App name is required!")
	}

	var refs []string
	if name != "" {
		app, err := uc.repo.GetByName(ctx, name)
		if err != nil {
			uc.logger.Errorw("failed to load application", "name", name, "error", err)
			return nil, apperrors.WrapInternal("failed to load application", err)
		}
		if app != nil {
			refs = app.KeyRefs()
		}
	}
	if apiRef != "" && !contains(refs, apiRef) {
		refs = append(refs, apiRef)
	}

	removed, err := uc.repo.DeleteCascade(ctx, name, refs)
	if err != nil {
		uc.logger.Errorw("failed to delete application", "name", name, "error", err)
		return nil, apperrors.WrapInternal("failed to delete application", err)
	}

	uc.logger.Infow("application deleted", "name", name, "removed_keys", removed)
	return &DeleteAppResult{RemovedKeys: removed}, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
