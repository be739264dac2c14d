package license

import "context"

// Repository persists license keys. Get returns (nil, nil) when the key does
// not exist. Update is a compare-and-swap on Version: it fails with
// ErrVersionConflict when the stored version differs (or the row is gone)
// and bumps the version on success.
type Repository interface {
	Create(ctx context.Context, key *LicenseKey) error
	GetByKey(ctx context.Context, key string) (*LicenseKey, error)
	Update(ctx context.Context, key *LicenseKey) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, filter ListFilter) ([]*LicenseKey, error)
}

// ListFilter narrows List. An empty Applications slice means all keys.
type ListFilter struct {
	Applications []string
	BoundOnly    bool
}

// KeyGenerator produces the random part of new keys.
type KeyGenerator interface {
	Generate(prefix string) (string, error)
}
