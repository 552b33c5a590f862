package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/application/apitoken/dto"
	"github.com/lumishop/shopadmin/internal/application/apitoken/usecases"
	"github.com/lumishop/shopadmin/internal/shared/id"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type issueTokenUseCase interface {
	Execute(ctx context.Context, cmd usecases.IssueTokenCommand) (*dto.IssuedTokenDTO, error)
}

type listTokensUseCase interface {
	Execute(ctx context.Context, query usecases.ListTokensQuery) ([]*dto.APITokenDTO, error)
}

type revokeTokenUseCase interface {
	Execute(ctx context.Context, cmd usecases.RevokeTokenCommand) error
}

type APITokenHandler struct {
	issueUC  issueTokenUseCase
	listUC   listTokensUseCase
	revokeUC revokeTokenUseCase
	logger   logger.Interface
}

func NewAPITokenHandler(
	issueUC issueTokenUseCase,
	listUC listTokensUseCase,
	revokeUC revokeTokenUseCase,
	logger logger.Interface,
) *APITokenHandler {
	return &APITokenHandler{
		issueUC:  issueUC,
		listUC:   listUC,
		revokeUC: revokeUC,
		logger:   logger,
	}
}

type CreateAPITokenRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Permissions   []string `json:"permissions" binding:"required,min=1,dive,permission"`
	RateLimit     int      `json:"rate_limit" binding:"omitempty,min=1"`
	ExpiresInDays int      `json:"expires_in_days" binding:"omitempty,min=1,max=3650"`
}

// Create handles POST /api/admin/tokens. The plaintext token is only ever returned here.
// @Summary Issue API token
// @Tags API Tokens
// @Accept json
// @Produce json
// @Param X-CSRF-Token header string true "CSRF token"
// @Param request body CreateAPITokenRequest true "Token name, permissions and limits"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 419 {object} utils.APIResponse
// @Router /api/admin/tokens [post]
func (h *APITokenHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateAPITokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create api token", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.issueUC.Execute(c.Request.Context(), usecases.IssueTokenCommand{
		UserID:        userID,
		Name:          req.Name,
		Permissions:   req.Permissions,
		RateLimit:     req.RateLimit,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	utils.CreatedResponse(c, result, "API token created, copy it now because it will not be shown again")
}

// List handles GET /api/admin/tokens.
// @Summary List own API tokens
// @Tags API Tokens
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /api/admin/tokens [get]
func (h *APITokenHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	tokens, err := h.listUC.Execute(c.Request.Context(), usecases.ListTokensQuery{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", tokens)
}

// Revoke handles DELETE /api/admin/tokens/:sid.
// @Summary Revoke API token
// @Tags API Tokens
// @Produce json
// @Param sid path string true "Token SID"
// @Param X-CSRF-Token header string true "CSRF token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/admin/tokens/{sid} [delete]
func (h *APITokenHandler) Revoke(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sid, err := utils.ParseSIDParam(c, "sid", id.PrefixAPIToken, "API token")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.revokeUC.Execute(c.Request.Context(), usecases.RevokeTokenCommand{
		TokenSID: sid,
		UserID:   userID,
		UserRole: getUserRoleFromContext(c),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
