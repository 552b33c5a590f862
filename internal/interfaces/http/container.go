package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	permissionApp "github.com/lumishop/shopadmin/internal/application/permission"
	"github.com/lumishop/shopadmin/internal/infrastructure/config"
	"github.com/lumishop/shopadmin/internal/infrastructure/usage"
	"github.com/lumishop/shopadmin/internal/interfaces/http/middleware"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases, handlers
// and background services, and wires them together. Shutdown releases what it started.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *services
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	csrfMiddleware       *middleware.CSRFMiddleware
	apiTokenMiddleware   *middleware.APITokenMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	loginLimiter         *middleware.RateLimiter

	permissionService *permissionApp.Service
	usageRecorder     *usage.Recorder

	stopPolicyEvents context.CancelFunc
	policyEventsDone <-chan struct{}
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, Repositories, Basic Services
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	if err := c.initHandlers(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine returns the Gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown drains the last-used queue, stops the policy event subscriber and closes
// the Redis client.
func (c *Container) Shutdown(ctx context.Context) {
	if c.usageRecorder != nil {
		done := make(chan struct{})
		go func() {
			c.usageRecorder.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			c.log.Warnw("timed out draining token usage queue")
		}
	}

	if c.stopPolicyEvents != nil {
		c.stopPolicyEvents()
		select {
		case <-c.policyEventsDone:
		case <-ctx.Done():
			c.log.Warnw("timed out stopping policy event subscriber")
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
