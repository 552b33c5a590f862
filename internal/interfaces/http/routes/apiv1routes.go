package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
)

// APIV1RouteConfig holds dependencies for the bearer-token API.
type APIV1RouteConfig struct {
	OrderHandler       *handlers.OrderHandler
	ReportHandler      *handlers.ReportHandler
	APITokenMiddleware *middleware.APITokenMiddleware
}

// SetupAPIV1Routes configures /api/v1. Each route names the token permission it needs.
func SetupAPIV1Routes(engine *gin.Engine, cfg *APIV1RouteConfig) {
	require := cfg.APITokenMiddleware.Require

	v1 := engine.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.GET("", require(apitoken.PermissionOrdersRead), cfg.OrderHandler.List)
			orders.POST("", require(apitoken.PermissionOrdersWrite), cfg.OrderHandler.Create)
			orders.GET("/:code", require(apitoken.PermissionOrdersRead), cfg.OrderHandler.Get)
			orders.PATCH("/:code/status", require(apitoken.PermissionOrdersWrite), cfg.OrderHandler.UpdateStatus)
		}

		reports := v1.Group("/reports", require(apitoken.PermissionReportsRead))
		{
			reports.GET("/revenue", cfg.ReportHandler.Revenue)
			reports.GET("/revenue/export", cfg.ReportHandler.Export)
		}
	}
}
