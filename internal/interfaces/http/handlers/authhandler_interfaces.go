package handlers

import (
	"context"

	appdto "github.com/hopperkey/phatdev/internal/application/app/dto"
	appUsecases "github.com/hopperkey/phatdev/internal/application/app/usecases"
	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/application/license/usecases"
	permissionApp "github.com/hopperkey/phatdev/internal/application/permission"
	"github.com/hopperkey/phatdev/internal/domain/permission"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type createKeyUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateKeyCommand) (*usecases.CreateKeyResult, error)
}

type validateKeyUseCase interface {
	Execute(ctx context.Context, cmd usecases.ValidateKeyCommand) (*usecases.ValidateKeyResult, error)
}

type banKeyUseCase interface {
	Execute(ctx context.Context, cmd usecases.BanKeyCommand) error
}

type resetKeyUseCase interface {
	Execute(ctx context.Context, cmd usecases.ResetKeyCommand) error
}

type deleteKeyUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteKeyCommand) error
}

type listKeysUseCase interface {
	Execute(ctx context.Context, query usecases.ListKeysQuery) ([]*dto.KeyDTO, error)
}

type getKeyUseCase interface {
	Execute(ctx context.Context, query usecases.GetKeyQuery) (*dto.KeyDTO, error)
}

type listUsersUseCase interface {
	Execute(ctx context.Context) ([]*dto.UserDTO, error)
}

type getAnalyticsUseCase interface {
	Execute(ctx context.Context) (*dto.AnalyticsDTO, error)
}

type createAppUseCase interface {
	Execute(ctx context.Context, cmd appUsecases.CreateAppCommand) (*appUsecases.CreateAppResult, error)
}

type deleteAppUseCase interface {
	Execute(ctx context.Context, cmd appUsecases.DeleteAppCommand) (*appUsecases.DeleteAppResult, error)
}

type listAppsUseCase interface {
	Execute(ctx context.Context) ([]*appdto.ApplicationDTO, error)
}

type countAppsUseCase interface {
	Execute(ctx context.Context) (int64, error)
}

type permissionService interface {
	HasRole(ctx context.Context, userID string) (permission.RoleSet, error)
	GrantSupport(ctx context.Context, userID, grantedBy string) error
	RevokeSupport(ctx context.Context, userID string) error
	ListSupports(ctx context.Context) ([]*permissionApp.SupportDTO, error)
}
