package http

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	csrfApp "github.com/lumishop/shopadmin/internal/application/csrf"
	permissionApp "github.com/lumishop/shopadmin/internal/application/permission"
	userUsecases "github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/infrastructure/auth"
	"github.com/lumishop/shopadmin/internal/infrastructure/cache"
	"github.com/lumishop/shopadmin/internal/infrastructure/config"
	"github.com/lumishop/shopadmin/internal/infrastructure/email"
	"github.com/lumishop/shopadmin/internal/infrastructure/export"
	"github.com/lumishop/shopadmin/internal/infrastructure/permission"
	"github.com/lumishop/shopadmin/internal/infrastructure/pubsub"
	"github.com/lumishop/shopadmin/internal/infrastructure/ratelimit"
	"github.com/lumishop/shopadmin/internal/infrastructure/token"
	"github.com/lumishop/shopadmin/internal/infrastructure/usage"
	"github.com/lumishop/shopadmin/internal/shared/goroutine"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/services/markdown"
)

const oauthStateTTL = 10 * time.Minute

// services holds infrastructure services shared by several use cases.
type services struct {
	jwt         *auth.JWTService
	hasher      *auth.BcryptPasswordHasher
	tokenGen    *token.Generator
	counter     ratelimit.Counter
	csrfLimiter *ratelimit.IPLimiter
	csrf        *csrfApp.Service
	markdown    markdown.MarkdownService
	renderer    *export.CSVRenderer
	mailer      *email.SMTPMailer

	// Both stay nil interfaces when Google login is not configured.
	oauthClient userUsecases.OAuthClient
	stateStore  userUsecases.StateStore
}

// initInfrastructure initializes Redis, repositories, infrastructure services and
// the permission enforcer.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Host != "" {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
	} else {
		log.Warnw("redis is not configured, using in-process stores")
	}

	c.repos = newRepositories(c.db, log)

	svcs := &services{
		jwt:         auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes),
		hasher:      auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		tokenGen:    token.NewGenerator(),
		csrfLimiter: ratelimit.NewIPLimiter(cfg.CSRF.EndpointPerMinute, cfg.CSRF.EndpointBurst),
		markdown:    markdown.NewMarkdownService(),
		renderer:    export.NewCSVRenderer(cfg.Report.Locale),
		mailer:      email.NewSMTPMailer(email.SMTPConfigFrom(cfg.Email)),
	}

	var csrfStore csrfApp.Store
	if c.redis != nil {
		svcs.counter = ratelimit.NewRedisCounter(c.redis, "ratelimit")
		csrfStore = cache.NewRedisCSRFStore(c.redis)
	} else {
		svcs.counter = ratelimit.NewMemoryCounter()
		csrfStore = cache.NewMemoryCSRFStore()
	}
	svcs.csrf = csrfApp.NewService(csrfStore, cfg.CSRF.TokenTTL(), log)

	google := auth.NewGoogleOAuthClient(auth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.Google.ClientID,
		ClientSecret: cfg.OAuth.Google.ClientSecret,
		RedirectURL:  cfg.OAuth.Google.RedirectURL,
	})
	switch {
	case !google.Configured():
		log.Infow("google login disabled, client credentials not set")
	case c.redis == nil:
		log.Warnw("google login disabled, it needs redis for the login state")
	default:
		svcs.oauthClient = &oauthClientAdapter{client: google}
		svcs.stateStore = &stateStoreAdapter{store: cache.NewRedisStateStore(c.redis, "oauth:state", oauthStateTTL)}
	}

	c.svcs = svcs

	c.usageRecorder = usage.NewRecorder(c.repos.tokenRepo, cfg.APIToken.UsageQueueSize, log)
	c.usageRecorder.Start()

	return c.initPermissions()
}

// initPermissions builds the casbin enforcer on the database adapter and seeds it
// from the permission file when one is configured.
func (c *Container) initPermissions() error {
	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}

	c.permissionService = permissionApp.NewService(enforcer, c.log)

	seedFile := c.cfg.Permission.SeedFile
	if seedFile == "" {
		c.log.Warnw("no permission seed file configured, using stored policies")
		return nil
	}

	reloader := permission.FileReloader{Enforcer: enforcer, Path: seedFile}
	if err := reloader.Reload(); err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}
	c.permissionService.WithReloader(reloader)
	c.log.Infow("permission policies seeded", "file", seedFile)

	if c.redis != nil {
		c.startPolicyEvents()
	}
	return nil
}

// startPolicyEvents announces local reloads to other instances and applies theirs.
func (c *Container) startPolicyEvents() {
	bus := pubsub.NewRedisPolicyEventBus(c.redis, c.log)
	c.permissionService.WithBroadcaster(bus, uuid.NewString())

	ctx, cancel := context.WithCancel(context.Background())
	c.stopPolicyEvents = cancel
	c.policyEventsDone = goroutine.SafeGoDone(c.log, "policy-events", func() {
		err := bus.Subscribe(ctx, func(ctx context.Context, ev pubsub.PolicyReloadEvent) {
			c.permissionService.HandleRemoteReload(ctx, ev.Source)
		}, nil)
		if err != nil && ctx.Err() == nil {
			c.log.Errorw("policy event subscriber failed", "error", err)
		}
	})
}

func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}
