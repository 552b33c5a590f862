package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/application/user/dto"
	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/config"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

const (
	oauthStateMaxAge    = 10 * 60
	defaultLoginPath    = "/login"
	defaultPostLoginURL = "/admin"
)

type AuthHandler struct {
	loginUseCase         loginUseCase
	initiateOAuthUseCase initiateOAuthUseCase
	handleOAuthUseCase   handleOAuthCallbackUseCase
	currentUserUseCase   getCurrentUserUseCase
	logger               logger.Interface
	cookieConfig         config.CookieConfig
	frontendURL          string
}

func NewAuthHandler(
	loginUC loginUseCase,
	initiateOAuthUC initiateOAuthUseCase,
	handleOAuthUC handleOAuthCallbackUseCase,
	currentUserUC getCurrentUserUseCase,
	logger logger.Interface,
	cookieConfig config.CookieConfig,
	frontendURL string,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:         loginUC,
		initiateOAuthUseCase: initiateOAuthUC,
		handleOAuthUseCase:   handleOAuthUC,
		currentUserUseCase:   currentUserUC,
		logger:               logger,
		cookieConfig:         cookieConfig,
		frontendURL:          strings.TrimRight(frontendURL, "/"),
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), usecases.LoginWithPasswordCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.logger.Warnw("login failed", "error", err, "email", utils.MaskEmail(req.Email), "ip", c.ClientIP())
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setSessionCookie(c, result.Session)

	utils.SuccessResponse(c, http.StatusOK, "login successful", dto.SessionDTO{
		User:      dto.ToUserDTO(result.User),
		ExpiresAt: result.Session.ExpiresAt,
	})
}

// Logout clears the session cookie. Access tokens are short lived and not tracked server side.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAccessTokenCookie(c, h.cookieConfig)
	utils.ClearCSRFCookie(c, h.cookieConfig)
	utils.SuccessResponse(c, http.StatusOK, "logout successful", nil)
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	currentUser, err := h.currentUserUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToUserDTO(currentUser))
}

// InitiateGoogleOAuth redirects to the Google consent page. The state travels both in Redis
// and in a short-lived cookie so the callback can bind it to this browser.
func (h *AuthHandler) InitiateGoogleOAuth(c *gin.Context) {
	result, err := h.initiateOAuthUseCase.Execute(c.Request.Context(), usecases.InitiateOAuthLoginCommand{
		RedirectTo: c.Query("redirect"),
	})
	if err != nil {
		h.logger.Errorw("OAuth initiation failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetOAuthStateCookie(c, h.cookieConfig, result.State, oauthStateMaxAge)
	c.Redirect(http.StatusFound, result.AuthURL)
}

func (h *AuthHandler) HandleGoogleCallback(c *gin.Context) {
	cookieState := utils.GetCookie(c, utils.OAuthStateCookie)
	utils.SetOAuthStateCookie(c, h.cookieConfig, "", -1)

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("OAuth provider returned error",
			"provider", "google",
			"error_code", errParam,
			"error_description", c.Query("error_description"),
		)
		h.redirectOAuthError(c, constants.OAuthErrorCode(errParam))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		h.redirectOAuthError(c, constants.OAuthErrorMissingCode)
		return
	}
	if state == "" {
		h.redirectOAuthError(c, constants.OAuthErrorMissingState)
		return
	}

	result, err := h.handleOAuthUseCase.Execute(c.Request.Context(), usecases.HandleOAuthCallbackCommand{
		Code:        code,
		State:       state,
		CookieState: cookieState,
	})
	if err != nil {
		h.logger.Warnw("OAuth callback failed", "error", err, "ip", c.ClientIP())
		h.redirectOAuthError(c, oauthErrorCode(err))
		return
	}

	h.setSessionCookie(c, result.Session)

	target := result.RedirectTo
	if target == "" {
		target = defaultPostLoginURL
	}
	c.Redirect(http.StatusFound, h.frontendURL+target)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session usecases.Session) {
	maxAge := int(session.ExpiresAt.Sub(biztime.NowUTC()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	utils.SetAccessTokenCookie(c, h.cookieConfig, session.AccessToken, maxAge)
}

func (h *AuthHandler) redirectOAuthError(c *gin.Context, code constants.OAuthErrorCode) {
	q := url.Values{}
	q.Set("error", string(code))
	q.Set("message", constants.GetOAuthErrorMessage(code))
	c.Redirect(http.StatusFound, h.frontendURL+defaultLoginPath+"?"+q.Encode())
}

// oauthErrorCode maps a callback failure to the code shown on the login page.
func oauthErrorCode(err error) constants.OAuthErrorCode {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return constants.OAuthErrorUserInfoFailed
	}

	msg := strings.ToLower(appErr.Message)
	switch appErr.Type {
	case errors.ErrorTypeUnauthorized:
		if strings.Contains(msg, "state") {
			return constants.OAuthErrorInvalidState
		}
		return constants.OAuthErrorExchangeFailed
	case errors.ErrorTypeForbidden:
		if strings.Contains(msg, "not verified") {
			return constants.OAuthErrorEmailNotVerified
		}
		return constants.OAuthErrorAccountDisabled
	case errors.ErrorTypeValidation:
		return constants.OAuthErrorMissingCode
	default:
		return constants.OAuthErrorServerError
	}
}
