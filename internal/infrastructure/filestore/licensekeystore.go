package filestore

import (
	"context"
	"slices"

	"github.com/hopperkey/phatdev/internal/domain/license"
)

type LicenseKeyStore struct {
	store *Store
}

func NewLicenseKeyStore(s *Store) license.Repository {
	return &LicenseKeyStore{store: s}
}

func (r *LicenseKeyStore) Create(ctx context.Context, key *license.LicenseKey) error {
	err := r.store.mutate(ctx, func(doc *Document) error {
		if doc.keyIndex(key.Key()) >= 0 {
			return license.ErrDuplicateKey
		}
		doc.Keys = append(doc.Keys, keyToRecord(key, 1))
		return nil
	})
	if err == nil {
		key.SetVersion(1)
	}
	return err
}

func (r *LicenseKeyStore) GetByKey(ctx context.Context, key string) (*license.LicenseKey, error) {
	var out *license.LicenseKey
	err := r.store.read(ctx, func(doc *Document) error {
		i := doc.keyIndex(key)
		if i < 0 {
			return nil
		}
		k, err := recordToKey(doc.Keys[i])
		out = k
		return err
	})
	return out, err
}

func (r *LicenseKeyStore) Update(ctx context.Context, key *license.LicenseKey) error {
	next := key.Version() + 1
	err := r.store.mutate(ctx, func(doc *Document) error {
		i := doc.keyIndex(key.Key())
		if i < 0 || doc.Keys[i].Version != key.Version() {
			return license.ErrVersionConflict
		}
		doc.Keys[i] = keyToRecord(key, next)
		return nil
	})
	if err == nil {
		key.SetVersion(next)
	}
	return err
}

func (r *LicenseKeyStore) Delete(ctx context.Context, key string) error {
	return r.store.mutate(ctx, func(doc *Document) error {
		i := doc.keyIndex(key)
		if i < 0 {
			return errNoChange
		}
		doc.Keys = slices.Delete(doc.Keys, i, i+1)
		return nil
	})
}

func (r *LicenseKeyStore) List(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
	var out []*license.LicenseKey
	err := r.store.read(ctx, func(doc *Document) error {
		out = make([]*license.LicenseKey, 0, len(doc.Keys))
		for _, rec := range doc.Keys {
			if len(filter.Applications) > 0 && !slices.Contains(filter.Applications, rec.API) {
				continue
			}
			k, err := recordToKey(rec)
			if err != nil {
				return err
			}
			if filter.BoundOnly && !k.IsUsed() {
				continue
			}
			out = append(out, k)
		}
		return nil
	})
	return out, err
}
