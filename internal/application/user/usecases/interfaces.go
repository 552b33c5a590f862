package usecases

import (
	"context"
	"time"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
)

// JWTService signs admin session tokens.
type JWTService interface {
	Generate(userID uint, email string, role authorization.UserRole) (string, time.Time, error)
}

// PasswordHasher extends the domain hasher with a constant-cost check for unknown accounts.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
	VerifyDummy(password string)
}

type OAuthUserInfo struct {
	Email         string
	Name          string
	EmailVerified bool
	ProviderID    string
}

// OAuthClient is the provider side of the authorization code flow with PKCE.
type OAuthClient interface {
	AuthURL(state string) (authURL string, codeVerifier string)
	ExchangeCode(ctx context.Context, code, codeVerifier string) (accessToken string, err error)
	GetUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error)
}

type OAuthState struct {
	CodeVerifier string
	RedirectTo   string
}

// StateStore keeps pending OAuth states. VerifyAndGet consumes the state.
type StateStore interface {
	Set(ctx context.Context, state string, info OAuthState) error
	VerifyAndGet(ctx context.Context, state string) (*OAuthState, error)
}

// Session is a signed access token and the user it was issued to.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
}
