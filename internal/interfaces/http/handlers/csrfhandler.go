package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumishop/shopadmin/internal/application/csrf"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/config"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type csrfService interface {
	Issue(ctx context.Context, sessionID string) (*csrf.Entry, error)
	Refresh(ctx context.Context, sessionID string) (*csrf.Entry, error)
	Verify(ctx context.Context, sessionID, presented string) (bool, error)
}

// CSRFTokenResponse is the body of the issue and refresh endpoints.
type CSRFTokenResponse struct {
	CSRFToken string    `json:"csrf_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CSRFHandler struct {
	service      csrfService
	cookieConfig config.CookieConfig
	sessionTTL   time.Duration
	logger       logger.Interface
}

func NewCSRFHandler(service csrfService, cookieConfig config.CookieConfig, sessionTTL time.Duration, logger logger.Interface) *CSRFHandler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &CSRFHandler{
		service:      service,
		cookieConfig: cookieConfig,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// Issue returns the session's live token, minting one if needed.
func (h *CSRFHandler) Issue(c *gin.Context) {
	sessionID := h.ensureSession(c)

	entry, err := h.service.Issue(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Errorw("failed to issue csrf token", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.respond(c, entry)
}

// Refresh rotates the session's token unconditionally.
func (h *CSRFHandler) Refresh(c *gin.Context) {
	sessionID := h.ensureSession(c)

	entry, err := h.service.Refresh(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Errorw("failed to refresh csrf token", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.respond(c, entry)
}

// Verify reports whether the X-CSRF-Token header matches the session token.
func (h *CSRFHandler) Verify(c *gin.Context) {
	sessionID := utils.GetCookie(c, utils.SessionCookie)
	presented := c.GetHeader(utils.CSRFTokenHeader)

	valid, err := h.service.Verify(c.Request.Context(), sessionID, presented)
	if err != nil {
		h.logger.Errorw("failed to verify csrf token", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to verify CSRF token"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"valid": valid})
}

func (h *CSRFHandler) respond(c *gin.Context, entry *csrf.Entry) {
	maxAge := int(entry.ExpiresAt.Sub(biztime.NowUTC()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	utils.SetCSRFCookie(c, h.cookieConfig, entry.Token, maxAge)
	c.Header("Cache-Control", "no-store")

	utils.SuccessResponse(c, http.StatusOK, "", CSRFTokenResponse{
		CSRFToken: entry.Token,
		ExpiresAt: entry.ExpiresAt,
	})
}

// ensureSession returns the shop_session id, issuing a new cookie when the client has
// none or sent something that is not a uuid.
func (h *CSRFHandler) ensureSession(c *gin.Context) string {
	if sessionID := utils.GetCookie(c, utils.SessionCookie); sessionID != "" {
		if _, err := uuid.Parse(sessionID); err == nil {
			return sessionID
		}
	}

	sessionID := uuid.NewString()
	utils.SetSessionCookie(c, h.cookieConfig, sessionID, int(h.sessionTTL.Seconds()))
	return sessionID
}
