package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/infrastructure/ratelimit"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
)

// CSRFRouteConfig holds dependencies for the CSRF token endpoints.
type CSRFRouteConfig struct {
	CSRFHandler *handlers.CSRFHandler
	Limiter     *ratelimit.IPLimiter
}

// SetupCSRFRoutes configures the token issue, refresh and verify endpoints.
func SetupCSRFRoutes(engine *gin.Engine, cfg *CSRFRouteConfig) {
	csrf := engine.Group("/csrf-token", middleware.Throttle(cfg.Limiter))
	{
		csrf.GET("", cfg.CSRFHandler.Issue)
		csrf.POST("/refresh", cfg.CSRFHandler.Refresh)
		csrf.POST("/verify", cfg.CSRFHandler.Verify)
	}
}
