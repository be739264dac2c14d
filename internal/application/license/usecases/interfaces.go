package usecases

import (
	"context"

	"github.com/hopperkey/phatdev/internal/application/license/dto"
)

// KeyLocker serializes work on one key across goroutines (and, with a
// shared backend, across processes).
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ValidationRecorder receives validation outcomes for metrics.
type ValidationRecorder interface {
	ObserveValidation(outcome string, newlyBound bool)
	ObserveVersionConflict()
}

type CreateKeyExecutor interface {
	Execute(ctx context.Context, cmd CreateKeyCommand) (*CreateKeyResult, error)
}

type ValidateKeyExecutor interface {
	Execute(ctx context.Context, cmd ValidateKeyCommand) (*ValidateKeyResult, error)
}

type BanKeyExecutor interface {
	Execute(ctx context.Context, cmd BanKeyCommand) error
}

type ResetKeyExecutor interface {
	Execute(ctx context.Context, cmd ResetKeyCommand) error
}

type DeleteKeyExecutor interface {
	Execute(ctx context.Context, cmd DeleteKeyCommand) error
}

type ListKeysExecutor interface {
	Execute(ctx context.Context, query ListKeysQuery) ([]*dto.KeyDTO, error)
}

type GetKeyExecutor interface {
	Execute(ctx context.Context, query GetKeyQuery) (*dto.KeyDTO, error)
}

type ListUsersExecutor interface {
	Execute(ctx context.Context) ([]*dto.UserDTO, error)
}

type GetAnalyticsExecutor interface {
	Execute(ctx context.Context) (*dto.AnalyticsDTO, error)
}
