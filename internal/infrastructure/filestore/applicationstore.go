package filestore

import (
	"context"
	"slices"

	"github.com/hopperkey/phatdev/internal/domain/application"
)

type ApplicationStore struct {
	store *Store
}

func NewApplicationStore(s *Store) application.Repository {
	return &ApplicationStore{store: s}
}

func (r *ApplicationStore) Create(ctx context.Context, app *application.Application) error {
	return r.store.mutate(ctx, func(doc *Document) error {
		for _, rec := range doc.Applications {
			if rec.Name == app.Name() {
				return application.ErrDuplicateName
			}
		}
		doc.Applications = append(doc.Applications, appToRecord(app))
		return nil
	})
}

func (r *ApplicationStore) GetByName(ctx context.Context, name string) (*application.Application, error) {
	return r.find(ctx, func(rec ApplicationRecord) bool { return rec.Name == name })
}

func (r *ApplicationStore) GetByAPIKey(ctx context.Context, apiKey string) (*application.Application, error) {
	return r.find(ctx, func(rec ApplicationRecord) bool { return rec.APIKey == apiKey })
}

func (r *ApplicationStore) find(ctx context.Context, match func(ApplicationRecord) bool) (*application.Application, error) {
	var out *application.Application
	err := r.store.read(ctx, func(doc *Document) error {
		i := slices.IndexFunc(doc.Applications, match)
		if i < 0 {
			return nil
		}
		app, err := recordToApp(doc.Applications[i])
		out = app
		return err
	})
	return out, err
}

func (r *ApplicationStore) List(ctx context.Context) ([]*application.Application, error) {
	var out []*application.Application
	err := r.store.read(ctx, func(doc *Document) error {
		out = make([]*application.Application, 0, len(doc.Applications))
		for _, rec := range doc.Applications {
			app, err := recordToApp(rec)
			if err != nil {
				return err
			}
			out = append(out, app)
		}
		return nil
	})
	return out, err
}

func (r *ApplicationStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(doc *Document) error {
		n = int64(len(doc.Applications))
		return nil
	})
	return n, err
}

func (r *ApplicationStore) DeleteCascade(ctx context.Context, name string, keyRefs []string) (int64, error) {
	var removed int64
	err := r.store.mutate(ctx, func(doc *Document) error {
		before := len(doc.Applications) + len(doc.Keys)
		if name != "" {
			doc.Applications = slices.DeleteFunc(doc.Applications, func(rec ApplicationRecord) bool {
				return rec.Name == name
			})
		}
		if len(keyRefs) > 0 {
			keysBefore := len(doc.Keys)
			doc.Keys = slices.DeleteFunc(doc.Keys, func(rec KeyRecord) bool {
				return slices.Contains(keyRefs, rec.API)
			})
			removed = int64(keysBefore - len(doc.Keys))
		}
		if len(doc.Applications)+len(doc.Keys) == before {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
