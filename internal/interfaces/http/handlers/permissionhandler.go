package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type permissionService interface {
	Allowed(ctx context.Context, role authorization.UserRole, perms []string) ([]string, error)
	Reload(ctx context.Context) error
}

// BackOfficePermissions are the resource:action pairs the admin UI gates on.
var BackOfficePermissions = []string{
	"tokens:read",
	"tokens:write",
	"orders:read",
	"orders:write",
	"reports:read",
	"posts:preview",
	"users:write",
	"permissions:reload",
}

type PermissionHandler struct {
	permissionService permissionService
	logger            logger.Interface
}

func NewPermissionHandler(permissionService permissionService, logger logger.Interface) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		logger:            logger,
	}
}

type MyPermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Mine handles GET /api/admin/permissions/me.
func (h *PermissionHandler) Mine(c *gin.Context) {
	role := getUserRoleFromContext(c)

	allowed, err := h.permissionService.Allowed(c.Request.Context(), role, BackOfficePermissions)
	if err != nil {
		h.logger.Errorw("failed to resolve permissions", "error", err, "role", role)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to resolve permissions"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", MyPermissionsResponse{
		Role:        role.String(),
		Permissions: allowed,
	})
}

// Reload handles POST /api/admin/permissions/reload.
func (h *PermissionHandler) Reload(c *gin.Context) {
	if err := h.permissionService.Reload(c.Request.Context()); err != nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to reload permission policies"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "permission policies reloaded", nil)
}
