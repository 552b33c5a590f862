package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/lumishop/shopadmin/docs"
	"github.com/lumishop/shopadmin/internal/infrastructure/config"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
	"github.com/lumishop/shopadmin/internal/interfaces/http/routes"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// rawFields are never sanitized.
var rawFields = []string{"password"}

// Router represents the HTTP router configuration.
type Router struct {
	*Container
}

// NewRouter wires the container. Call SetupRoutes before serving.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes installs the global middleware chain and registers every route group.
func (r *Router) SetupRoutes() {
	cfg := r.cfg
	log := r.log

	r.engine.Use(
		middleware.RequestID(),
		middleware.CustomLogger(log),
		middleware.Recovery(log),
		middleware.SecurityHeaders(cfg.Security.ContentSecurityPolicy),
		middleware.CORS(cfg.Server.AllowedOrigins),
		// Forged requests are refused before their bodies are read.
		r.csrfMiddleware.Protect(),
		middleware.SanitizeInput(middleware.SanitizeOptions{
			RichFields:   cfg.Security.RichFields,
			RawFields:    rawFields,
			MaxBodyBytes: cfg.Security.MaxBodyBytes,
			Logger:       log,
		}),
		middleware.ErrorHandler(log),
	)

	if cfg.Server.Mode != gin.ReleaseMode {
		r.engine.GET("/swagger/*any",
			middleware.OverrideCSP(middleware.SwaggerUIPolicy),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.engine.GET("/health", r.hdlrs.healthHandler.Health)

	routes.SetupCSRFRoutes(r.engine, &routes.CSRFRouteConfig{
		CSRFHandler: r.hdlrs.csrfHandler,
		Limiter:     r.svcs.csrfLimiter,
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:    r.hdlrs.authHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.loginLimiter,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		APITokenHandler:      r.hdlrs.apiTokenHandler,
		OrderHandler:         r.hdlrs.orderHandler,
		ReportHandler:        r.hdlrs.reportHandler,
		PostHandler:          r.hdlrs.postHandler,
		UserHandler:          r.hdlrs.userHandler,
		PermissionHandler:    r.hdlrs.permissionHandler,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
	})

	routes.SetupAPIV1Routes(r.engine, &routes.APIV1RouteConfig{
		OrderHandler:       r.hdlrs.orderHandler,
		ReportHandler:      r.hdlrs.reportHandler,
		APITokenMiddleware: r.apiTokenMiddleware,
	})
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
