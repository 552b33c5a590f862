package http

import (
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// allHandlers holds all HTTP handler instances.
type allHandlers struct {
	authHandler       *handlers.AuthHandler
	csrfHandler       *handlers.CSRFHandler
	apiTokenHandler   *handlers.APITokenHandler
	orderHandler      *handlers.OrderHandler
	reportHandler     *handlers.ReportHandler
	postHandler       *handlers.PostHandler
	userHandler       *handlers.UserHandler
	permissionHandler *handlers.PermissionHandler
	healthHandler     *handlers.HealthHandler
}

// initHandlers registers the custom validators and creates handlers and middlewares.
func (c *Container) initHandlers() error {
	utils.SetupGinValidator()
	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	cfg := c.cfg
	log := c.log
	ucs := c.ucs

	c.hdlrs = &allHandlers{
		authHandler: handlers.NewAuthHandler(
			ucs.login,
			ucs.initiateOAuth,
			ucs.handleCallback,
			ucs.currentUser,
			log,
			cfg.Auth.Cookie,
			cfg.Server.GetFrontendURL(),
		),
		csrfHandler:       handlers.NewCSRFHandler(c.svcs.csrf, cfg.Auth.Cookie, cfg.CSRF.SessionTTL(), log),
		apiTokenHandler:   handlers.NewAPITokenHandler(ucs.issueToken, ucs.listTokens, ucs.revokeToken, log),
		orderHandler:      handlers.NewOrderHandler(ucs.createOrder, ucs.getOrder, ucs.listOrders, ucs.updateOrderStatus, log),
		reportHandler:     handlers.NewReportHandler(ucs.revenueReport, ucs.exportReport, ucs.mailReport, log),
		postHandler:       handlers.NewPostHandler(c.svcs.markdown, log),
		userHandler:       handlers.NewUserHandler(ucs.createUser, log),
		permissionHandler: handlers.NewPermissionHandler(c.permissionService, log),
		healthHandler:     handlers.NewHealthHandler(log, c.healthChecks()...),
	}

	c.authMiddleware = middleware.NewAuthMiddleware(c.svcs.jwt, log)
	c.csrfMiddleware = middleware.NewCSRFMiddleware(c.svcs.csrf, log)
	c.apiTokenMiddleware = middleware.NewAPITokenMiddleware(ucs.authenticateToken, c.svcs.counter, c.usageRecorder, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.permissionService, log)
	c.loginLimiter = middleware.NewRateLimiter(c.svcs.counter, "login", cfg.Auth.LoginPerMinute, time.Minute, log)

	return nil
}
