package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/infrastructure/auth"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type JWTVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwtService JWTVerifier
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService JWTVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth accepts the session JWT from the access_token cookie, or from an
// Authorization bearer header for non-browser admin clients.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetCookie(c, utils.AccessTokenCookie)
		if token == "" {
			bearer, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
			if !ok {
				utils.AbortWithError(c, errors.NewUnauthorizedError("missing authorization token"))
				return
			}
			token = bearer
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
			utils.AbortWithError(c, errors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			utils.AbortWithError(c, errors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserEmail, claims.Email)
		c.Set(constants.ContextKeyUserRole, claims.Role.String())

		c.Next()
	}
}

// OptionalAuth sets the identity when a valid session is present and never rejects.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetCookie(c, utils.AccessTokenCookie)
		if token == "" {
			c.Next()
			return
		}

		if claims, err := m.jwtService.Verify(token); err == nil {
			if userID, err := claims.UserID(); err == nil {
				c.Set(constants.ContextKeyUserID, userID)
				c.Set(constants.ContextKeyUserEmail, claims.Email)
				c.Set(constants.ContextKeyUserRole, claims.Role.String())
			}
		}

		c.Next()
	}
}
