package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	vo "github.com/hopperkey/phatdev/internal/domain/permission/value_objects"
	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/logger"
	"github.com/hopperkey/phatdev/internal/shared/utils"
)

type authorizer interface {
	Authorize(ctx context.Context, userID string, resource vo.Resource, action vo.Action) (bool, error)
}

// PermissionMiddleware guards dispatched actions with the RBAC policy. It
// runs after the request is bound, which puts the caller and the guarded
// resource/action pair into the context.
type PermissionMiddleware struct {
	authorizer authorizer
	logger     logger.Interface
}

func NewPermissionMiddleware(authorizer authorizer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

func (m *PermissionMiddleware) RequireActionPermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(constants.ContextKeyUserID)
		resource, _ := c.Get(constants.ContextKeyGuardResource)
		action, _ := c.Get(constants.ContextKeyGuardAction)

		res, okRes := resource.(vo.Resource)
		act, okAct := action.(vo.Action)
		if !okRes || !okAct {
			// Nothing was bound; let the dispatcher report the request.
			c.Next()
			return
		}

		allowed, err := m.authorizer.Authorize(c.Request.Context(), userID, res, act)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "resource", res, "action", act)
			c.Set(constants.ContextKeyActionSuccess, false)
			utils.AbortWithError(c, constants.ErrMsgInternalServerError)
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "resource", res, "action", act)
			c.Set(constants.ContextKeyActionSuccess, false)
			utils.AbortWithError(c, constants.ErrMsgPermissionDenied)
			return
		}

		c.Next()
	}
}
