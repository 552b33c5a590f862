package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type PermissionChecker interface {
	CheckPermission(ctx context.Context, role authorization.UserRole, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	permissionService PermissionChecker
	logger            logger.Interface
}

func NewPermissionMiddleware(permissionService PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		permissionService: permissionService,
		logger:            logger,
	}
}

// RequirePermission checks the session role against the RBAC policy. It must run after
// RequireAuth.
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(constants.ContextKeyUserID)
		if !exists {
			utils.AbortWithError(c, errors.NewUnauthorizedError("user not authenticated"))
			return
		}

		role := authorization.UserRole(c.GetString(constants.ContextKeyUserRole))
		allowed, err := m.permissionService.CheckPermission(c.Request.Context(), role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "resource", resource, "action", action)
			utils.AbortWithError(c, errors.NewInternalError("permission check failed"))
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", userID,
				"role", role,
				"resource", resource,
				"action", action,
			)
			utils.AbortWithError(c, errors.NewForbiddenError(constants.ErrMsgForbidden, resource+":"+action))
			return
		}

		c.Next()
	}
}
