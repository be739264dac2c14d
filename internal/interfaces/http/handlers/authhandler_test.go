package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdto "github.com/hopperkey/phatdev/internal/application/app/dto"
	appUsecases "github.com/hopperkey/phatdev/internal/application/app/usecases"
	"github.com/hopperkey/phatdev/internal/application/license/dto"
	"github.com/hopperkey/phatdev/internal/application/license/usecases"
	permissionApp "github.com/hopperkey/phatdev/internal/application/permission"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/domain/permission"
	vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"
	"github.com/hopperkey/phatdev/internal/interfaces/http/handlers/testutil"
	"github.com/hopperkey/phatdev/internal/interfaces/http/middleware"
	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
)

type authFixture struct {
	createKey    *mockCreateKeyUC
	validateKey  *mockValidateKeyUC
	banKey       *mockBanKeyUC
	resetKey     *mockResetKeyUC
	deleteKey    *mockDeleteKeyUC
	listKeys     *mockListKeysUC
	getKey       *mockGetKeyUC
	listUsers    *mockListUsersUC
	getAnalytics *mockGetAnalyticsUC
	createApp    *mockCreateAppUC
	deleteApp    *mockDeleteAppUC
	listApps     *mockListAppsUC
	countApps    *mockCountAppsUC
	perms        *mockPermissionService

	handler *AuthHandler
	engine  *gin.Engine
}

func newAuthFixture(t *testing.T, guarded bool) *authFixture {
	t.Helper()

	f := &authFixture{
		createKey:    &mockCreateKeyUC{},
		validateKey:  &mockValidateKeyUC{},
		banKey:       &mockBanKeyUC{},
		resetKey:     &mockResetKeyUC{},
		deleteKey:    &mockDeleteKeyUC{},
		listKeys:     &mockListKeysUC{},
		getKey:       &mockGetKeyUC{},
		listUsers:    &mockListUsersUC{},
		getAnalytics: &mockGetAnalyticsUC{},
		createApp:    &mockCreateAppUC{},
		deleteApp:    &mockDeleteAppUC{},
		listApps:     &mockListAppsUC{},
		countApps:    &mockCountAppsUC{},
		perms:        &mockPermissionService{},
	}

	f.handler = NewAuthHandler(AuthHandlerDeps{
		CreateKey:    f.createKey,
		ValidateKey:  f.validateKey,
		BanKey:       f.banKey,
		ResetKey:     f.resetKey,
		DeleteKey:    f.deleteKey,
		ListKeys:     f.listKeys,
		GetKey:       f.getKey,
		ListUsers:    f.listUsers,
		GetAnalytics: f.getAnalytics,
		CreateApp:    f.createApp,
		DeleteApp:    f.deleteApp,
		ListApps:     f.listApps,
		CountApps:    f.countApps,
		Permissions:  f.perms,
	}, logger.NewNopLogger())

	f.engine = gin.New()
	chain := []gin.HandlerFunc{f.handler.Bind()}
	if guarded {
		guard := middleware.NewPermissionMiddleware(f.perms, logger.NewNopLogger())
		chain = append(chain, guard.RequireActionPermission())
	}
	chain = append(chain, f.handler.Handle)
	f.engine.POST("/auth", chain...)

	return f
}

func (f *authFixture) post(t *testing.T, body any, headers ...string) map[string]any {
	t.Helper()
	return testutil.PostAction(t, f.engine, body, headers...)
}

func TestAuthHandler_ActionTable(t *testing.T) {
	f := newAuthFixture(t, false)

	assert.ElementsMatch(t, []string{
		"test", "get_analytics", "get_users", "check_support", "check_permission",
		"get_apps", "create_app", "delete_app", "get_keys", "check_key", "create_key",
		"delete_key", "reset_hwid", "ban_key", "validate_key", "get_supports",
		"add_support", "delete_support",
	}, f.handler.Actions())
}

func TestAuthHandler_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		message string
	}{
		{name: "unknown action", body: map[string]any{"action": "drop_tables"}, message: constants.ErrMsgInvalidAction},
		{name: "missing action", body: map[string]any{"key": "VIP-ABCDEFGH"}, message: constants.ErrMsgInvalidAction},
		{name: "action is case sensitive", body: map[string]any{"action": "TEST"}, message: constants.ErrMsgInvalidAction},
		{name: "malformed json", body: `{"action": "test"`, message: constants.ErrMsgInvalidRequest},
		{name: "prefix with control characters", body: map[string]any{"action": "create_key", "prefix": "VIP\n"}, message: "prefix must contain only printable ASCII characters!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, false)

			resp := f.post(t, tt.body)

			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.message, resp["message"])
		})
	}
}

func TestAuthHandler_Test(t *testing.T) {
	f := newAuthFixture(t, false)

	resp := f.post(t, map[string]any{"action": "test"})

	assert.Equal(t, map[string]any{"success": true}, resp)
}

func TestAuthHandler_CreateKey(t *testing.T) {
	expiresAt := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		body        map[string]any
		days        int
		deviceLimit int
	}{
		{
			name:        "numeric fields",
			body:        map[string]any{"action": "create_key", "api": "AK-1", "prefix": "VIP", "days": 30, "device_limit": 2},
			days:        30,
			deviceLimit: 2,
		},
		{
			name:        "string fields",
			body:        map[string]any{"action": "create_key", "api": "AK-1", "days": "30", "device_limit": "3"},
			days:        30,
			deviceLimit: 3,
		},
		{
			name:        "missing device limit",
			body:        map[string]any{"action": "create_key", "api": "AK-1", "days": 7},
			days:        7,
			deviceLimit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, false)
			f.createKey.result = &usecases.CreateKeyResult{Key: "VIP-ABCDEFGH", Application: "AK-1", ExpiresAt: expiresAt}

			resp := f.post(t, tt.body)

			assert.Equal(t, true, resp["success"])
			assert.Equal(t, "VIP-ABCDEFGH", resp["key"])
			assert.Equal(t, "2026-05-01T08:00:00.000Z", resp["expires_at"])
			assert.Equal(t, "AK-1", f.createKey.got.ApplicationRef)
			assert.Equal(t, tt.days, f.createKey.got.Days)
			assert.Equal(t, tt.deviceLimit, f.createKey.got.DeviceLimit)
		})
	}
}

func TestAuthHandler_CreateKeyValidationError(t *testing.T) {
	f := newAuthFixture(t, false)
	f.createKey.err = errors.NewValidationError("Days must be at least 1!")

	resp := f.post(t, map[string]any{"action": "create_key", "api": "AK-1"})

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Days must be at least 1!", resp["message"])
}

func TestAuthHandler_ValidateKey(t *testing.T) {
	expiresAt := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("admitted", func(t *testing.T) {
		f := newAuthFixture(t, false)
		f.validateKey.result = &usecases.ValidateKeyResult{
			OK:        true,
			Message:   license.MsgLoginSuccessful,
			ExpiresAt: &expiresAt,
		}

		resp := f.post(t, map[string]any{
			"action":      "validate_key",
			"key":         "VIP-ABCDEFGH",
			"hwid":        "dev-A",
			"system_info": "<script>x</script>Pixel 8",
		})

		assert.Equal(t, true, resp["success"])
		assert.Equal(t, license.MsgLoginSuccessful, resp["message"])
		assert.Equal(t, "2026-05-01T08:00:00.000Z", resp["expires_at"])
		assert.Equal(t, "dev-A", f.validateKey.got.DeviceID)
		assert.Equal(t, "Pixel 8", f.validateKey.got.SystemInfo)
	})

	t.Run("rejected", func(t *testing.T) {
		f := newAuthFixture(t, false)
		f.validateKey.result = &usecases.ValidateKeyResult{
			Reason:  license.ReasonDeviceLimitReached,
			Message: license.MsgDeviceLimit,
		}

		resp := f.post(t, map[string]any{"action": "validate_key", "key": "VIP-ABCDEFGH", "hwid": "dev-B"})

		assert.Equal(t, map[string]any{"success": false, "message": license.MsgDeviceLimit}, resp)
	})

	t.Run("numeric hwid", func(t *testing.T) {
		f := newAuthFixture(t, false)
		f.validateKey.result = &usecases.ValidateKeyResult{Reason: license.ReasonBanned, Message: license.MsgBanned}

		f.post(t, map[string]any{"action": "validate_key", "key": "VIP-ABCDEFGH", "hwid": 123456})

		assert.Equal(t, "123456", f.validateKey.got.DeviceID)
	})
}

func TestAuthHandler_InternalErrorIsNotLeaked(t *testing.T) {
	f := newAuthFixture(t, false)
	f.getAnalytics.err = errors.WrapInternal("failed to list keys", stderrors.New("disk on fire"))

	resp := f.post(t, map[string]any{"action": "get_analytics"})

	assert.Equal(t, false, resp["success"])
	assert.Equal(t, constants.ErrMsgInternalServerError, resp["message"])
}

func TestAuthHandler_KeyCommands(t *testing.T) {
	f := newAuthFixture(t, false)

	for _, action := range []string{"ban_key", "reset_hwid", "delete_key"} {
		resp := f.post(t, map[string]any{"action": action, "key": "VIP-ABCDEFGH"})
		assert.Equal(t, map[string]any{"success": true}, resp, action)
	}

	assert.Equal(t, []string{"VIP-ABCDEFGH"}, f.banKey.keys)
	assert.Equal(t, []string{"VIP-ABCDEFGH"}, f.resetKey.keys)
	assert.Equal(t, []string{"VIP-ABCDEFGH"}, f.deleteKey.keys)
}

func TestAuthHandler_OversizedKeyIsMissing(t *testing.T) {
	long := "VIP-" + strings.Repeat("A", 200)

	tests := []struct {
		action string
		want   map[string]any
	}{
		{"check_key", map[string]any{"success": false, "message": license.MsgKeyLookupMissing}},
		{"validate_key", map[string]any{"success": false, "message": license.MsgKeyNotFound}},
		{"ban_key", map[string]any{"success": true}},
		{"reset_hwid", map[string]any{"success": true}},
		{"delete_key", map[string]any{"success": true}},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			f := newAuthFixture(t, false)

			resp := f.post(t, map[string]any{"action": tt.action, "key": long, "hwid": "dev-A"})

			assert.Equal(t, tt.want, resp)
			assert.Empty(t, f.validateKey.got.Key)
			assert.Empty(t, f.banKey.keys)
			assert.Empty(t, f.resetKey.keys)
			assert.Empty(t, f.deleteKey.keys)
		})
	}
}

func TestAuthHandler_Queries(t *testing.T) {
	f := newAuthFixture(t, false)
	f.getAnalytics.result = &dto.AnalyticsDTO{TotalKeys: 4, ActiveKeys: 1, BannedKeys: 1, ExpiredKeys: 1, TotalApps: 2}
	f.listKeys.result = []*dto.KeyDTO{{Key: "VIP-ABCDEFGH", Status: "Inactive", Hwids: []string{}}}
	f.listUsers.result = []*dto.UserDTO{{UserID: "dev-A", KeyUsed: "VIP-ABCDEFGH", Status: "Active"}}
	f.listApps.result = []*appdto.ApplicationDTO{{Name: "App1", APIKey: "AK-1"}}
	f.getKey.err = errors.NewNotFoundError(license.MsgKeyLookupMissing)

	analytics := f.post(t, map[string]any{"action": "get_analytics"})
	assert.Equal(t, float64(4), analytics["total_keys"])
	assert.Equal(t, float64(2), analytics["total_apps"])

	keys := f.post(t, map[string]any{"action": "get_keys", "api": "AK-1"})
	require.Len(t, keys["keys"], 1)
	assert.Equal(t, "AK-1", f.listKeys.got.ApplicationRef)

	users := f.post(t, map[string]any{"action": "get_users"})
	require.Len(t, users["users"], 1)

	apps := f.post(t, map[string]any{"action": "get_apps"})
	require.Len(t, apps["applications"], 1)

	missing := f.post(t, map[string]any{"action": "check_key", "key": "VIP-NOPE0000"})
	assert.Equal(t, map[string]any{"success": false, "message": "Key not found!"}, missing)
}

func TestAuthHandler_Apps(t *testing.T) {
	f := newAuthFixture(t, false)
	f.createApp.result = &appUsecases.CreateAppResult{Name: "App1", APIKey: "AK-ABCDEFGHIJ"}
	f.deleteApp.result = &appUsecases.DeleteAppResult{RemovedKeys: 3}

	created := f.post(t, map[string]any{"action": "create_app", "app_name": "<b>App1</b>", "userId": 42})
	assert.Equal(t, true, created["success"])
	assert.Equal(t, "AK-ABCDEFGHIJ", created["api_key"])
	assert.Equal(t, "App1", f.createApp.got.Name)
	assert.Equal(t, "42", f.createApp.got.CreatedBy)

	deleted := f.post(t, map[string]any{"action": "delete_app", "app_name": "App1", "api": "AK-ABCDEFGHIJ"})
	assert.Equal(t, float64(3), deleted["removed_keys"])
	assert.Equal(t, appUsecases.DeleteAppCommand{Name: "App1", APIRef: "AK-ABCDEFGHIJ"}, f.deleteApp.got)
}

func TestAuthHandler_Roles(t *testing.T) {
	f := newAuthFixture(t, false)
	var askedFor []string
	f.perms.HasRoleFunc = func(ctx context.Context, userID string) (permission.RoleSet, error) {
		askedFor = append(askedFor, userID)
		return permission.RoleSetOf(permission.RoleAdmin), nil
	}
	f.countApps.result = 5

	support := f.post(t, map[string]any{"action": "check_support"})
	assert.Equal(t, true, support["is_support"])

	perm := f.post(t, map[string]any{"action": "check_permission", "user_id": "admin-1"})
	assert.Equal(t, true, perm["is_admin"])
	assert.Equal(t, float64(5), perm["app_count"])

	assert.Equal(t, []string{constants.GuestUserID, "admin-1"}, askedFor)
}

func TestAuthHandler_SupportManagement(t *testing.T) {
	f := newAuthFixture(t, false)
	var granted, grantedBy, revoked string
	f.perms.GrantSupportFunc = func(ctx context.Context, userID, by string) error {
		granted, grantedBy = userID, by
		return nil
	}
	f.perms.RevokeSupportFunc = func(ctx context.Context, userID string) error {
		revoked = userID
		return nil
	}
	f.perms.ListSupportsFunc = func(ctx context.Context) ([]*permissionApp.SupportDTO, error) {
		return []*permissionApp.SupportDTO{{UserID: "sup-1", Role: "support"}}, nil
	}

	added := f.post(t, map[string]any{"action": "add_support", "user_id": "sup-1"}, constants.HeaderXUserID, "admin-1")
	assert.Equal(t, true, added["success"])
	assert.Equal(t, "sup-1", granted)
	assert.Equal(t, "admin-1", grantedBy)

	f.post(t, map[string]any{"action": "add_support", "user_id": "sup-2"})
	assert.Equal(t, constants.GuestUserID, grantedBy)

	f.post(t, map[string]any{"action": "delete_support", "userId": "sup-1"})
	assert.Equal(t, "sup-1", revoked)

	supports := f.post(t, map[string]any{"action": "get_supports"})
	require.Len(t, supports["supports"], 1)
}

func TestAuthHandler_PermissionGuard(t *testing.T) {
	f := newAuthFixture(t, true)
	f.perms.AuthorizeFunc = func(ctx context.Context, userID string, resource vo.Resource, action vo.Action) (bool, error) {
		if userID == "admin-1" {
			return true, nil
		}
		return resource == vo.ResourceLicense && action == vo.ActionValidate, nil
	}
	f.validateKey.result = &usecases.ValidateKeyResult{Reason: license.ReasonNotFound, Message: license.MsgKeyNotFound}

	denied := f.post(t, map[string]any{"action": "ban_key", "key": "VIP-ABCDEFGH"})
	assert.Equal(t, map[string]any{"success": false, "message": constants.ErrMsgPermissionDenied}, denied)
	assert.Empty(t, f.banKey.keys)

	allowed := f.post(t, map[string]any{"action": "ban_key", "key": "VIP-ABCDEFGH", "user_id": "admin-1"})
	assert.Equal(t, true, allowed["success"])

	validated := f.post(t, map[string]any{"action": "validate_key", "key": "VIP-ABCDEFGH", "hwid": "dev-A"})
	assert.Equal(t, license.MsgKeyNotFound, validated["message"])
}

func TestAuthHandler_PermissionGuardFailure(t *testing.T) {
	f := newAuthFixture(t, true)
	f.perms.AuthorizeFunc = func(ctx context.Context, userID string, resource vo.Resource, action vo.Action) (bool, error) {
		return false, stderrors.New("store down")
	}

	resp := f.post(t, map[string]any{"action": "test"})

	assert.Equal(t, constants.ErrMsgInternalServerError, resp["message"])
}

func TestAuthHandler_HandleWithoutBind(t *testing.T) {
	f := newAuthFixture(t, false)
	c, w := testutil.NewTestContext(http.MethodPost, "/auth", map[string]any{"action": "test"})

	f.handler.Handle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, testutil.ParseEnvelope(t, w)["success"])
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		raw   string
		value int
		set   bool
	}{
		{raw: `30`, value: 30, set: true},
		{raw: `"30"`, value: 30, set: true},
		{raw: `" 7 "`, value: 7, set: true},
		{raw: `30.9`, value: 30, set: true},
		{raw: `"30 days"`, value: 30, set: true},
		{raw: `"-2"`, value: -2, set: true},
		{raw: `"abc"`, set: false},
		{raw: `null`, set: false},
		{raw: `true`, set: false},
		{raw: `"99999999999999999999999"`, set: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.set, n.Set)
			assert.Equal(t, tt.value, n.Value)
		})
	}
}

func TestFlexString(t *testing.T) {
	var req AuthRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_id": 123, "hwid": "dev-A", "userId": null}`), &req))

	assert.Equal(t, FlexString("123"), req.UserID)
	assert.Equal(t, FlexString("dev-A"), req.HWID)
	assert.Equal(t, "123", req.CallerID())

	var empty AuthRequest
	require.NoError(t, json.Unmarshal([]byte(`{"user_id": {"nested": true}}`), &empty))
	assert.Equal(t, constants.GuestUserID, empty.CallerID())
	assert.Equal(t, "", empty.TargetUserID())
}

func TestHealthHandler(t *testing.T) {
	engine := gin.New()
	h := NewHealthHandler(pingerFunc(func(ctx context.Context) error { return nil }), "file", logger.NewNopLogger())
	engine.GET("/", h.Root)
	engine.GET("/healthz", h.Healthz)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.HealthBanner, w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", testutil.ParseEnvelope(t, w)["status"])

	down := gin.New()
	hDown := NewHealthHandler(pingerFunc(func(ctx context.Context) error { return stderrors.New("gone") }), "postgres", logger.NewNopLogger())
	down.GET("/healthz", hDown.Healthz)
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
