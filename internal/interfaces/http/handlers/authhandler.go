package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"
	"github.com/hopperkey/phatdev/internal/shared/constants"
	apperrors "github.com/hopperkey/phatdev/internal/shared/errors"
	"github.com/hopperkey/phatdev/internal/shared/logger"
	"github.com/hopperkey/phatdev/internal/shared/utils"
)

// actionResult is what an action hands back to the dispatcher. Failures that
// are part of the normal protocol (a rejected device) are results, not
// errors.
type actionResult struct {
	ok      bool
	message string
	payload utils.Payload
}

func succeed(payload utils.Payload) *actionResult {
	return &actionResult{ok: true, payload: payload}
}

func fail(message string) *actionResult {
	return &actionResult{message: message}
}

type actionFunc func(ctx context.Context, req *AuthRequest, actor string) (*actionResult, error)

// actionRoute binds an action name to its implementation and to the
// resource/action pair the permission guard checks.
type actionRoute struct {
	run      actionFunc
	resource vo.Resource
	verb     vo.Action
	// targetsUser marks actions whose user_id names the user being changed
	// rather than the caller.
	targetsUser bool
}

// AuthHandlerDeps lists the registry operations the dispatcher calls.
type AuthHandlerDeps struct {
	CreateKey    createKeyUseCase
	ValidateKey  validateKeyUseCase
	BanKey       banKeyUseCase
	ResetKey     resetKeyUseCase
	DeleteKey    deleteKeyUseCase
	ListKeys     listKeysUseCase
	GetKey       getKeyUseCase
	ListUsers    listUsersUseCase
	GetAnalytics getAnalyticsUseCase
	CreateApp    createAppUseCase
	DeleteApp    deleteAppUseCase
	ListApps     listAppsUseCase
	CountApps    countAppsUseCase
	Permissions  permissionService
}

// AuthHandler serves POST /auth: one JSON body, one action, one envelope.
type AuthHandler struct {
	deps      AuthHandlerDeps
	routes    map[string]actionRoute
	sanitizer *bluemonday.Policy
	logger    logger.Interface
}

func NewAuthHandler(deps AuthHandlerDeps, logger logger.Interface) *AuthHandler {
	h := &AuthHandler{
		deps:      deps,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
	h.routes = h.actionTable()
	return h
}

func (h *AuthHandler) actionTable() map[string]actionRoute {
	return map[string]actionRoute{
		"test":             {run: h.test, resource: vo.ResourceSystem, verb: vo.ActionRead},
		"get_analytics":    {run: h.getAnalytics, resource: vo.ResourceAnalytics, verb: vo.ActionRead},
		"get_users":        {run: h.getUsers, resource: vo.ResourceLicense, verb: vo.ActionRead},
		"check_support":    {run: h.checkSupport, resource: vo.ResourceSystem, verb: vo.ActionRead},
		"check_permission": {run: h.checkPermission, resource: vo.ResourceSystem, verb: vo.ActionRead},
		"get_apps":         {run: h.getApps, resource: vo.ResourceApplication, verb: vo.ActionRead},
		"create_app":       {run: h.createApp, resource: vo.ResourceApplication, verb: vo.ActionWrite},
		"delete_app":       {run: h.deleteApp, resource: vo.ResourceApplication, verb: vo.ActionDelete},
		"get_keys":         {run: h.getKeys, resource: vo.ResourceLicense, verb: vo.ActionRead},
		"check_key":        {run: h.checkKey, resource: vo.ResourceLicense, verb: vo.ActionRead},
		"create_key":       {run: h.createKey, resource: vo.ResourceLicense, verb: vo.ActionWrite},
		"delete_key":       {run: h.deleteKey, resource: vo.ResourceLicense, verb: vo.ActionDelete},
		"reset_hwid":       {run: h.resetHWID, resource: vo.ResourceLicense, verb: vo.ActionWrite},
		"ban_key":          {run: h.banKey, resource: vo.ResourceLicense, verb: vo.ActionWrite},
		"validate_key":     {run: h.validateKey, resource: vo.ResourceLicense, verb: vo.ActionValidate},
		"get_supports":     {run: h.getSupports, resource: vo.ResourceSupport, verb: vo.ActionRead},
		"add_support":      {run: h.addSupport, resource: vo.ResourceSupport, verb: vo.ActionWrite, targetsUser: true},
		"delete_support":   {run: h.deleteSupport, resource: vo.ResourceSupport, verb: vo.ActionDelete, targetsUser: true},
	}
}

// Actions lists the recognized action names.
func (h *AuthHandler) Actions() []string {
	names := make([]string, 0, len(h.routes))
	for name := range h.routes {
		names = append(names, name)
	}
	return names
}

// Bind decodes and validates the body, resolves the action and the caller,
// and stores them in the context for the guard and for Handle.
func (h *AuthHandler) Bind() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AuthRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Debugw("invalid auth request body", "error", err)
			utils.AbortWithError(c, constants.ErrMsgInvalidRequest)
			return
		}

		req.Action = strings.TrimSpace(req.Action)
		route, ok := h.routes[req.Action]
		if !ok {
			h.logger.Warnw("invalid action", "action", req.Action, "user_id", req.CallerID())
			utils.AbortWithError(c, constants.ErrMsgInvalidAction)
			return
		}

		c.Set(constants.ContextKeyAction, req.Action)
		c.Set(constants.ContextKeyUserID, h.actorOf(c, &req, route))
		c.Set(constants.ContextKeyActionSuccess, false)

		if err := utils.ValidateStruct(&req); err != nil {
			utils.AbortWithError(c, utils.ErrorMessage(err))
			return
		}

		c.Set(constants.ContextKeyAuthRequest, &req)
		c.Set(constants.ContextKeyGuardResource, route.resource)
		c.Set(constants.ContextKeyGuardAction, route.verb)
		c.Next()
	}
}

// actorOf names the caller. X-User-ID wins; otherwise the body user id is
// the caller, except for actions where it names the target user.
func (h *AuthHandler) actorOf(c *gin.Context, req *AuthRequest, route actionRoute) string {
	if id := strings.TrimSpace(c.GetHeader(constants.HeaderXUserID)); id != "" {
		return id
	}
	if route.targetsUser {
		return constants.GuestUserID
	}
	return req.CallerID()
}

// Handle runs the bound action and writes the envelope.
func (h *AuthHandler) Handle(c *gin.Context) {
	value, exists := c.Get(constants.ContextKeyAuthRequest)
	req, ok := value.(*AuthRequest)
	if !exists || !ok {
		utils.ErrorResponse(c, constants.ErrMsgInvalidAction)
		return
	}
	route := h.routes[req.Action]
	actor := c.GetString(constants.ContextKeyUserID)

	result, err := route.run(c.Request.Context(), req, actor)
	if err != nil {
		if apperrors.IsInternalError(err) || !apperrors.IsAppError(err) {
			h.logger.Errorw("action failed", "action", req.Action, "user_id", actor, "error", err)
		} else {
			h.logger.Infow("action rejected", "action", req.Action, "user_id", actor, "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Set(constants.ContextKeyActionSuccess, result.ok)
	c.JSON(http.StatusOK, utils.Envelope(result.ok, result.message, result.payload))
}

func (h *AuthHandler) sanitize(s string) string {
	return strings.TrimSpace(h.sanitizer.Sanitize(s))
}
