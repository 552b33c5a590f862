package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for the back-office routes.
type AdminRouteConfig struct {
	APITokenHandler      *handlers.APITokenHandler
	OrderHandler         *handlers.OrderHandler
	ReportHandler        *handlers.ReportHandler
	PostHandler          *handlers.PostHandler
	UserHandler          *handlers.UserHandler
	PermissionHandler    *handlers.PermissionHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures session-authenticated routes. CSRF is enforced
// globally for unsafe methods.
func SetupAdminRoutes(engine *gin.Engine, cfg *AdminRouteConfig) {
	perm := cfg.PermissionMiddleware.RequirePermission

	admin := engine.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	{
		tokens := admin.Group("/tokens")
		{
			tokens.POST("", perm("tokens", "write"), cfg.APITokenHandler.Create)
			tokens.GET("", perm("tokens", "read"), cfg.APITokenHandler.List)
			tokens.DELETE("/:sid", perm("tokens", "write"), cfg.APITokenHandler.Revoke)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", perm("orders", "read"), cfg.OrderHandler.List)
			orders.POST("", perm("orders", "write"), cfg.OrderHandler.Create)
			orders.GET("/:code", perm("orders", "read"), cfg.OrderHandler.Get)
			orders.PATCH("/:code/status", perm("orders", "write"), cfg.OrderHandler.UpdateStatus)
		}

		reports := admin.Group("/reports", perm("reports", "read"))
		{
			reports.GET("/revenue", cfg.ReportHandler.Revenue)
			reports.GET("/revenue/export", cfg.ReportHandler.Export)
			reports.POST("/revenue/mail", cfg.ReportHandler.Mail)
		}

		admin.POST("/posts/preview", perm("posts", "preview"), cfg.PostHandler.Preview)
		admin.POST("/users", perm("users", "write"), cfg.UserHandler.CreateUser)

		admin.GET("/permissions/me", cfg.PermissionHandler.Mine)
		admin.POST("/permissions/reload", perm("permissions", "reload"), cfg.PermissionHandler.Reload)
	}
}
