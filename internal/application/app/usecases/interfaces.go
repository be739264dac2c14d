package usecases

import (
	"context"

	"github.com/hopperkey/phatdev/internal/application/app/dto"
)

// APIKeyGenerator produces "AK-XXXXXXXXXX" style keys.
type APIKeyGenerator interface {
	Generate(prefix string) (string, error)
}

type CreateAppExecutor interface {
	Execute(ctx context.Context, cmd CreateAppCommand) (*CreateAppResult, error)
}

type DeleteAppExecutor interface {
	Execute(ctx context.Context, cmd DeleteAppCommand) (*DeleteAppResult, error)
}

type ListAppsExecutor interface {
	Execute(ctx context.Context) ([]*dto.ApplicationDTO, error)
}

type CountAppsExecutor interface {
	Execute(ctx context.Context) (int64, error)
}
