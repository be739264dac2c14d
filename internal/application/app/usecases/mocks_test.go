package usecases

import (
	"context"
	"time"

	"github.com/hopperkey/phatdev/internal/domain/application"
)

var testNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type mockAppRepository struct {
	CreateFunc        func(ctx context.Context, app *application.Application) error
	GetByNameFunc     func(ctx context.Context, name string) (*application.Application, error)
	GetByAPIKeyFunc   func(ctx context.Context, apiKey string) (*application.Application, error)
	ListFunc          func(ctx context.Context) ([]*application.Application, error)
	CountFunc         func(ctx context.Context) (int64, error)
	DeleteCascadeFunc func(ctx context.Context, name string, keyRefs []string) (int64, error)
}

func (m *mockAppRepository) Create(ctx context.Context, app *application.Application) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, app)
	}
	return nil
}

func (m *mockAppRepository) GetByName(ctx context.Context, name string) (*application.Application, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockAppRepository) GetByAPIKey(ctx context.Context, apiKey string) (*application.Application, error) {
	if m.GetByAPIKeyFunc != nil {
		return m.GetByAPIKeyFunc(ctx, apiKey)
	}
	return nil, nil
}

func (m *mockAppRepository) List(ctx context.Context) ([]*application.Application, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockAppRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockAppRepository) DeleteCascade(ctx context.Context, name string, keyRefs []string) (int64, error) {
	if m.DeleteCascadeFunc != nil {
		return m.DeleteCascadeFunc(ctx, name, keyRefs)
	}
	return 0, nil
}

type stubGenerator struct {
	value string
	err   error
}

func (g stubGenerator) Generate(prefix string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return prefix + "-" + g.value, nil
}
