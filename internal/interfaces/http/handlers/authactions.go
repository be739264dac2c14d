package handlers

import (
	"context"
	"strings"

	appUsecases "github.com/hopperkey/phatdev/internal/application/app/usecases"
	"github.com/hopperkey/phatdev/internal/application/license/usecases"
	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
	"github.com/hopperkey/phatdev/internal/shared/utils"
	"github.com/hopperkey/phatdev/internal/shared/utils/logutil"
)

func (h *AuthHandler) test(_ context.Context, _ *AuthRequest, _ string) (*actionResult, error) {
	return succeed(nil), nil
}

func (h *AuthHandler) getAnalytics(ctx context.Context, _ *AuthRequest, _ string) (*actionResult, error) {
	stats, err := h.deps.GetAnalytics.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{
		"total_keys":   stats.TotalKeys,
		"active_keys":  stats.ActiveKeys,
		"banned_keys":  stats.BannedKeys,
		"expired_keys": stats.ExpiredKeys,
		"total_apps":   stats.TotalApps,
	}), nil
}

func (h *AuthHandler) getUsers(ctx context.Context, _ *AuthRequest, _ string) (*actionResult, error) {
	users, err := h.deps.ListUsers.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"users": users}), nil
}

func (h *AuthHandler) checkSupport(ctx context.Context, _ *AuthRequest, actor string) (*actionResult, error) {
	roles, err := h.deps.Permissions.HasRole(ctx, actor)
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"is_support": roles.IsSupport}), nil
}

func (h *AuthHandler) checkPermission(ctx context.Context, _ *AuthRequest, actor string) (*actionResult, error) {
	roles, err := h.deps.Permissions.HasRole(ctx, actor)
	if err != nil {
		return nil, err
	}
	count, err := h.deps.CountApps.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"is_admin": roles.IsAdmin, "app_count": count}), nil
}

func (h *AuthHandler) getApps(ctx context.Context, _ *AuthRequest, _ string) (*actionResult, error) {
	apps, err := h.deps.ListApps.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"applications": apps}), nil
}

func (h *AuthHandler) createApp(ctx context.Context, req *AuthRequest, actor string) (*actionResult, error) {
	result, err := h.deps.CreateApp.Execute(ctx, appUsecases.CreateAppCommand{
		Name:      h.sanitize(req.AppName),
		CreatedBy: actor,
	})
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"name": result.Name, "api_key": result.APIKey}), nil
}

func (h *AuthHandler) deleteApp(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	result, err := h.deps.DeleteApp.Execute(ctx, appUsecases.DeleteAppCommand{
		Name:   strings.TrimSpace(req.AppName),
		APIRef: req.API,
	})
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"removed_keys": result.RemovedKeys}), nil
}

func (h *AuthHandler) getKeys(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	keys, err := h.deps.ListKeys.Execute(ctx, usecases.ListKeysQuery{ApplicationRef: req.API})
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"keys": keys}), nil
}

func (h *AuthHandler) checkKey(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	lookup, ok := req.LookupKey()
	if !ok {
		return fail(license.MsgKeyLookupMissing), nil
	}
	key, err := h.deps.GetKey.Execute(ctx, usecases.GetKeyQuery{Key: lookup})
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"key": key}), nil
}

func (h *AuthHandler) createKey(ctx context.Context, req *AuthRequest, actor string) (*actionResult, error) {
	result, err := h.deps.CreateKey.Execute(ctx, usecases.CreateKeyCommand{
		ApplicationRef: req.API,
		Prefix:         strings.TrimSpace(req.Prefix),
		Days:           req.Days.Value,
		DeviceLimit:    req.DeviceLimit.Value,
	})
	if err != nil {
		return nil, err
	}
	h.logger.Infow("key created", "key", utils.MaskKey(result.Key), "application", result.Application, "user_id", actor)
	return succeed(utils.Payload{
		"key":        result.Key,
		"expires_at": biztime.FormatISO(result.ExpiresAt),
	}), nil
}

func (h *AuthHandler) deleteKey(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	key, ok := req.LookupKey()
	if !ok {
		return succeed(nil), nil
	}
	if err := h.deps.DeleteKey.Execute(ctx, usecases.DeleteKeyCommand{Key: key}); err != nil {
		return nil, err
	}
	return succeed(nil), nil
}

func (h *AuthHandler) resetHWID(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	key, ok := req.LookupKey()
	if !ok {
		return succeed(nil), nil
	}
	if err := h.deps.ResetKey.Execute(ctx, usecases.ResetKeyCommand{Key: key}); err != nil {
		return nil, err
	}
	return succeed(nil), nil
}

func (h *AuthHandler) banKey(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	key, ok := req.LookupKey()
	if !ok {
		return succeed(nil), nil
	}
	if err := h.deps.BanKey.Execute(ctx, usecases.BanKeyCommand{Key: key}); err != nil {
		return nil, err
	}
	return succeed(nil), nil
}

func (h *AuthHandler) validateKey(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	key, ok := req.LookupKey()
	if !ok {
		return fail(license.MsgKeyNotFound), nil
	}
	systemInfo := h.sanitize(req.SystemInfo)
	result, err := h.deps.ValidateKey.Execute(ctx, usecases.ValidateKeyCommand{
		Key:        key,
		DeviceID:   string(req.HWID),
		SystemInfo: systemInfo,
	})
	if err != nil {
		return nil, err
	}
	if !result.OK {
		h.logger.Debugw("validation rejected",
			"key", utils.MaskKey(req.Key),
			"reason", result.Reason,
			"system_info", logutil.TruncateForLog(systemInfo, 64))
		return fail(result.Message), nil
	}

	res := succeed(utils.Payload{"expires_at": biztime.FormatISOPtr(result.ExpiresAt)})
	res.message = result.Message
	return res, nil
}

func (h *AuthHandler) getSupports(ctx context.Context, _ *AuthRequest, _ string) (*actionResult, error) {
	supports, err := h.deps.Permissions.ListSupports(ctx)
	if err != nil {
		return nil, err
	}
	return succeed(utils.Payload{"supports": supports}), nil
}

func (h *AuthHandler) addSupport(ctx context.Context, req *AuthRequest, actor string) (*actionResult, error) {
	if err := h.deps.Permissions.GrantSupport(ctx, req.TargetUserID(), actor); err != nil {
		return nil, err
	}
	return succeed(nil), nil
}

func (h *AuthHandler) deleteSupport(ctx context.Context, req *AuthRequest, _ string) (*actionResult, error) {
	if err := h.deps.Permissions.RevokeSupport(ctx, req.TargetUserID()); err != nil {
		return nil, err
	}
	return succeed(nil), nil
}
