package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// CSRFVerifier checks a presented token against the one stored for a session.
type CSRFVerifier interface {
	Verify(ctx context.Context, sessionID, presented string) (bool, error)
}

// csrfExactPaths lists exact paths exempt from CSRF validation.
// These are unauthenticated endpoints with no cookie session to protect.
var csrfExactPaths = map[string]struct{}{
	"/api/auth/login": {},
}

// csrfPrefixPaths lists path prefixes exempt from CSRF validation.
var csrfPrefixPaths = []string{
	"/csrf-token",
	"/api/auth/oauth/",
	// Bearer token API, no cookie session.
	"/api/v1/",
}

type CSRFMiddleware struct {
	verifier CSRFVerifier
	logger   logger.Interface
}

func NewCSRFMiddleware(verifier CSRFVerifier, logger logger.Interface) *CSRFMiddleware {
	return &CSRFMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Protect validates the X-CSRF-Token header of mutating requests against the token
// stored server side for the shop_session cookie. Failures answer 419 so clients know to
// refresh their token and retry once.
func (m *CSRFMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) || isCSRFExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		sessionID := utils.GetCookie(c, utils.SessionCookie)
		presented := c.GetHeader(utils.CSRFTokenHeader)
		if sessionID == "" || presented == "" {
			m.reject(c, "missing CSRF token")
			return
		}

		valid, err := m.verifier.Verify(c.Request.Context(), sessionID, presented)
		if err != nil {
			m.logger.Errorw("failed to verify csrf token", "error", err, "path", c.Request.URL.Path)
			utils.AbortWithError(c, errors.NewInternalError("failed to verify CSRF token"))
			return
		}
		if !valid {
			m.reject(c, "invalid or expired CSRF token")
			return
		}

		c.Next()
	}
}

func (m *CSRFMiddleware) reject(c *gin.Context, reason string) {
	m.logger.Warnw("csrf check failed",
		"reason", reason,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"client_ip", c.ClientIP(),
		"request_id", c.GetString(constants.ContextKeyRequestID),
	)
	utils.AbortWithError(c, errors.NewCSRFMismatchError(constants.ErrMsgCSRFMismatch, reason))
}

func isCSRFExempt(path string) bool {
	if _, ok := csrfExactPaths[path]; ok {
		return true
	}
	for _, prefix := range csrfPrefixPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isSafeMethod returns true for HTTP methods that do not mutate state.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
