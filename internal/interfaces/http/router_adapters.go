package http

import (
	"context"

	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/infrastructure/auth"
	"github.com/lumishop/shopadmin/internal/infrastructure/cache"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
)

// oauthClientAdapter adapts auth.GoogleOAuthClient to usecases.OAuthClient.
type oauthClientAdapter struct {
	client *auth.GoogleOAuthClient
}

func (a *oauthClientAdapter) AuthURL(state string) (string, string) {
	return a.client.AuthURL(state)
}

func (a *oauthClientAdapter) ExchangeCode(ctx context.Context, code, codeVerifier string) (string, error) {
	return a.client.ExchangeCode(ctx, code, codeVerifier)
}

func (a *oauthClientAdapter) GetUserInfo(ctx context.Context, accessToken string) (*usecases.OAuthUserInfo, error) {
	info, err := a.client.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &usecases.OAuthUserInfo{
		Email:         info.Email,
		Name:          info.Name,
		EmailVerified: info.EmailVerified,
		ProviderID:    info.ProviderID,
	}, nil
}

// stateStoreAdapter adapts cache.RedisStateStore to usecases.StateStore.
type stateStoreAdapter struct {
	store *cache.RedisStateStore
}

func (a *stateStoreAdapter) Set(ctx context.Context, state string, info usecases.OAuthState) error {
	return a.store.Set(ctx, state, cache.StateInfo{
		CodeVerifier: info.CodeVerifier,
		RedirectTo:   info.RedirectTo,
		CreatedAt:    biztime.NowUTC(),
	})
}

func (a *stateStoreAdapter) VerifyAndGet(ctx context.Context, state string) (*usecases.OAuthState, error) {
	info, err := a.store.VerifyAndGet(ctx, state)
	if err != nil {
		return nil, err
	}
	return &usecases.OAuthState{
		CodeVerifier: info.CodeVerifier,
		RedirectTo:   info.RedirectTo,
	}, nil
}

// healthChecks returns the dependency probes reported by /health.
func (c *Container) healthChecks() []handlers.HealthCheck {
	checks := []handlers.HealthCheck{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}

	if c.redis != nil {
		checks = append(checks, handlers.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return c.redis.Ping(ctx).Err()
			},
		})
	}
	return checks
}
