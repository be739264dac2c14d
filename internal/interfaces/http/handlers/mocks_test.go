package handlers

import (
	"context"

	appdto "github.com/hopperkey/phatdev/internal/application/app/dto"
	appUsecases "github.com/hopperkey/phatdev/internal/application/app/usecases"
	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/application/license/usecases"
	permissionApp "github.com/hopperkey/phatdev/internal/application/permission"
	"github.com/hopperkey/phatdev/internal/domain/permission"
	vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateKeyUC struct {
	got    usecases.CreateKeyCommand
	result *usecases.CreateKeyResult
	err    error
}

func (m *mockCreateKeyUC) Execute(ctx context.Context, cmd usecases.CreateKeyCommand) (*usecases.CreateKeyResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockValidateKeyUC struct {
	got    usecases.ValidateKeyCommand
	result *usecases.ValidateKeyResult
	err    error
}

func (m *mockValidateKeyUC) Execute(ctx context.Context, cmd usecases.ValidateKeyCommand) (*usecases.ValidateKeyResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockKeyCommandUC struct {
	keys []string
	err  error
}

func (m *mockKeyCommandUC) record(key string) error {
	m.keys = append(m.keys, key)
	return m.err
}

type mockBanKeyUC struct{ mockKeyCommandUC }

func (m *mockBanKeyUC) Execute(ctx context.Context, cmd usecases.BanKeyCommand) error {
	return m.record(cmd.Key)
}

type mockResetKeyUC struct{ mockKeyCommandUC }

func (m *mockResetKeyUC) Execute(ctx context.Context, cmd usecases.ResetKeyCommand) error {
	return m.record(cmd.Key)
}

type mockDeleteKeyUC struct{ mockKeyCommandUC }

func (m *mockDeleteKeyUC) Execute(ctx context.Context, cmd usecases.DeleteKeyCommand) error {
	return m.record(cmd.Key)
}

type mockListKeysUC struct {
	got    usecases.ListKeysQuery
	result []*dto.KeyDTO
	err    error
}

func (m *mockListKeysUC) Execute(ctx context.Context, query usecases.ListKeysQuery) ([]*dto.KeyDTO, error) {
	m.got = query
	return m.result, m.err
}

type mockGetKeyUC struct {
	result *dto.KeyDTO
	err    error
}

func (m *mockGetKeyUC) Execute(ctx context.Context, query usecases.GetKeyQuery) (*dto.KeyDTO, error) {
	return m.result, m.err
}

type mockListUsersUC struct {
	result []*dto.UserDTO
	err    error
}

func (m *mockListUsersUC) Execute(ctx context.Context) ([]*dto.UserDTO, error) {
	return m.result, m.err
}

type mockGetAnalyticsUC struct {
	result *dto.AnalyticsDTO
	err    error
}

func (m *mockGetAnalyticsUC) Execute(ctx context.Context) (*dto.AnalyticsDTO, error) {
	return m.result, m.err
}

type mockCreateAppUC struct {
	got    appUsecases.CreateAppCommand
	result *appUsecases.CreateAppResult
	err    error
}

func (m *mockCreateAppUC) Execute(ctx context.Context, cmd appUsecases.CreateAppCommand) (*appUsecases.CreateAppResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockDeleteAppUC struct {
	got    appUsecases.DeleteAppCommand
	result *appUsecases.DeleteAppResult
	err    error
}

func (m *mockDeleteAppUC) Execute(ctx context.Context, cmd appUsecases.DeleteAppCommand) (*appUsecases.DeleteAppResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListAppsUC struct {
	result []*appdto.ApplicationDTO
	err    error
}

func (m *mockListAppsUC) Execute(ctx context.Context) ([]*appdto.ApplicationDTO, error) {
	return m.result, m.err
}

type mockCountAppsUC struct {
	result int64
	err    error
}

func (m *mockCountAppsUC) Execute(ctx context.Context) (int64, error) {
	return m.result, m.err
}

type mockPermissionService struct {
	HasRoleFunc       func(ctx context.Context, userID string) (permission.RoleSet, error)
	GrantSupportFunc  func(ctx context.Context, userID, grantedBy string) error
	RevokeSupportFunc func(ctx context.Context, userID string) error
	ListSupportsFunc  func(ctx context.Context) ([]*permissionApp.SupportDTO, error)
	AuthorizeFunc     func(ctx context.Context, userID string, resource vo.Resource, action vo.Action) (bool, error)
}

func (m *mockPermissionService) HasRole(ctx context.Context, userID string) (permission.RoleSet, error) {
	if m.HasRoleFunc != nil {
		return m.HasRoleFunc(ctx, userID)
	}
	return permission.RoleSet{}, nil
}

func (m *mockPermissionService) GrantSupport(ctx context.Context, userID, grantedBy string) error {
	if m.GrantSupportFunc != nil {
		return m.GrantSupportFunc(ctx, userID, grantedBy)
	}
	return nil
}

func (m *mockPermissionService) RevokeSupport(ctx context.Context, userID string) error {
	if m.RevokeSupportFunc != nil {
		return m.RevokeSupportFunc(ctx, userID)
	}
	return nil
}

func (m *mockPermissionService) ListSupports(ctx context.Context) ([]*permissionApp.SupportDTO, error) {
	if m.ListSupportsFunc != nil {
		return m.ListSupportsFunc(ctx)
	}
	return nil, nil
}

func (m *mockPermissionService) Authorize(ctx context.Context, userID string, resource vo.Resource, action vo.Action) (bool, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, userID, resource, action)
	}
	return true, nil
}
