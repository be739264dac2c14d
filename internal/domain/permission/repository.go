package permission

import "context"

// Repository stores role assignments keyed by user id. Get returns
// (nil, nil) for users without an assignment.
type Repository interface {
	Get(ctx context.Context, userID string) (*Assignment, error)
	// Save inserts or replaces the assignment for its user.
	Save(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, userID string) error
	// ListAtLeast returns assignments whose role implies min, ordered by user id.
	ListAtLeast(ctx context.Context, min Role) ([]*Assignment, error)
}
