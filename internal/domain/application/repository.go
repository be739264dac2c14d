package application

import "context"

// Repository persists applications. Lookups return (nil, nil) on a miss.
type Repository interface {
	// Create fails with ErrDuplicateName when the name is taken.
	Create(ctx context.Context, app *Application) error
	GetByName(ctx context.Context, name string) (*Application, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*Application, error)
	List(ctx context.Context) ([]*Application, error)
	Count(ctx context.Context) (int64, error)
	// DeleteCascade removes the named application (if present) and every
	// license key referencing one of keyRefs in a single atomic write.
	DeleteCascade(ctx context.Context, name string, keyRefs []string) (removedKeys int64, err error)
}
