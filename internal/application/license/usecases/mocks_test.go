package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/domain/license"
)

var testNow = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type mockKeyRepository struct {
	CreateFunc   func(ctx context.Context, key *license.LicenseKey) error
	GetByKeyFunc func(ctx context.Context, key string) (*license.LicenseKey, error)
	UpdateFunc   func(ctx context.Context, key *license.LicenseKey) error
	DeleteFunc   func(ctx context.Context, key string) error
	ListFunc     func(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error)
}

func (m *mockKeyRepository) Create(ctx context.Context, key *license.LicenseKey) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, key)
	}
	return nil
}

func (m *mockKeyRepository) GetByKey(ctx context.Context, key string) (*license.LicenseKey, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockKeyRepository) Update(ctx context.Context, key *license.LicenseKey) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key)
	}
	return nil
}

func (m *mockKeyRepository) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *mockKeyRepository) List(ctx context.Context, filter license.ListFilter) ([]*license.LicenseKey, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

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

type mockLocker struct {
	mu     sync.Mutex
	locked []string
	err    error
}

func (m *mockLocker) Lock(_ context.Context, key string) (func(), error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	m.locked = append(m.locked, key)
	m.mu.Unlock()
	return func() {}, nil
}

type mockRecorder struct {
	mu        sync.Mutex
	outcomes  []string
	bindings  int
	conflicts int
}

func (m *mockRecorder) ObserveValidation(outcome string, newlyBound bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	if newlyBound {
		m.bindings++
	}
}

func (m *mockRecorder) ObserveVersionConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

type mockGenerator struct {
	values []string
	calls  int
	err    error
}

func (m *mockGenerator) Generate(prefix string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v := m.values[m.calls%len(m.values)]
	m.calls++
	return prefix + "-" + v, nil
}
