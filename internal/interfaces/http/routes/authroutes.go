package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/api/auth")
	{
		auth.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.GetCurrentUser)

		auth.GET("/oauth/google", cfg.AuthHandler.InitiateGoogleOAuth)
		auth.GET("/oauth/google/callback", cfg.AuthHandler.HandleGoogleCallback)
	}
}
