package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/config"
)

const (
	AccessTokenCookie = "access_token"
	SessionCookie     = "shop_session"
	CSRFTokenCookie   = "csrf_token"
	// CSRFTokenHeader is matched case-insensitively, so X-CSRF-TOKEN works as well.
	CSRFTokenHeader  = "X-CSRF-Token"
	OAuthStateCookie = "oauth_state"
)

// SetAccessTokenCookie stores the admin session JWT in an HttpOnly cookie.
func SetAccessTokenCookie(c *gin.Context, cookieConfig config.CookieConfig, accessToken string, maxAge int) {
	setCookie(c, cookieConfig, AccessTokenCookie, accessToken, maxAge, true)
}

// ClearAccessTokenCookie removes the admin session JWT cookie.
func ClearAccessTokenCookie(c *gin.Context, cookieConfig config.CookieConfig) {
	setCookie(c, cookieConfig, AccessTokenCookie, "", -1, true)
}

// SetSessionCookie stores the anonymous browser session id that CSRF tokens are bound to.
func SetSessionCookie(c *gin.Context, cookieConfig config.CookieConfig, sessionID string, maxAge int) {
	setCookie(c, cookieConfig, SessionCookie, sessionID, maxAge, true)
}

// SetCSRFCookie mirrors the session's CSRF token in a cookie readable by frontend JavaScript
// for the double-submit pattern.
func SetCSRFCookie(c *gin.Context, cookieConfig config.CookieConfig, token string, maxAge int) {
	setCookie(c, cookieConfig, CSRFTokenCookie, token, maxAge, false)
}

// ClearCSRFCookie removes the CSRF token cookie.
func ClearCSRFCookie(c *gin.Context, cookieConfig config.CookieConfig) {
	setCookie(c, cookieConfig, CSRFTokenCookie, "", -1, false)
}

// SetOAuthStateCookie keeps the OAuth state and PKCE verifier for the callback round trip.
func SetOAuthStateCookie(c *gin.Context, cookieConfig config.CookieConfig, value string, maxAge int) {
	setCookie(c, cookieConfig, OAuthStateCookie, value, maxAge, true)
}

// GetCookie returns the named cookie value or "" when it is absent.
func GetCookie(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}

func setCookie(c *gin.Context, cookieConfig config.CookieConfig, name, value string, maxAge int, httpOnly bool) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))
	path := cookieConfig.Path
	if path == "" {
		path = "/"
	}
	c.SetCookie(name, value, maxAge, path, cookieConfig.Domain, cookieConfig.Secure, httpOnly)
}

// parseSameSite converts string to http.SameSite
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
