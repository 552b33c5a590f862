package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

const invalidCredentials = "invalid email or password"

type LoginWithPasswordCommand struct {
	Email     string
	Password  string
	IPAddress string
}

type LoginWithPasswordResult struct {
	User    *user.User
	Session Session
}

type LoginWithPasswordUseCase struct {
	userRepo   user.Repository
	hasher     PasswordHasher
	jwtService JWTService
	logger     logger.Interface
	now        func() time.Time
}

func NewLoginWithPasswordUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	jwtService JWTService,
	logger logger.Interface,
) *LoginWithPasswordUseCase {
	return &LoginWithPasswordUseCase{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *LoginWithPasswordUseCase) Execute(ctx context.Context, cmd LoginWithPasswordCommand) (*LoginWithPasswordResult, error) {
	email, err := user.NormalizeEmail(cmd.Email)
	if err != nil || cmd.Password == "" {
		return nil, errors.NewUnauthorizedError(invalidCredentials)
	}

	existingUser, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Same message and comparable cost whether or not the email exists.
	if existingUser == nil {
		uc.hasher.VerifyDummy(cmd.Password)
		return nil, errors.NewUnauthorizedError(invalidCredentials)
	}

	if err := existingUser.VerifyPassword(cmd.Password, uc.hasher); err != nil {
		uc.logger.Warnw("failed login attempt", "user_id", existingUser.ID(), "ip", cmd.IPAddress)
		return nil, errors.NewUnauthorizedError(invalidCredentials)
	}

	if !existingUser.IsActive() {
		return nil, errors.NewForbiddenError("account is disabled")
	}

	session, err := issueSession(ctx, uc.userRepo, uc.jwtService, existingUser, uc.now(), uc.logger)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user logged in", "user_id", existingUser.ID(), "method", "password")

	return &LoginWithPasswordResult{User: existingUser, Session: *session}, nil
}

// issueSession records the login and signs the access token. A failed last-login write
// does not block the login.
func issueSession(
	ctx context.Context,
	repo user.Repository,
	jwtService JWTService,
	u *user.User,
	now time.Time,
	log logger.Interface,
) (*Session, error) {
	u.RecordLogin(now)
	if err := repo.Update(ctx, u); err != nil {
		log.Warnw("failed to record last login", "user_id", u.ID(), "error", err)
	}

	token, expiresAt, err := jwtService.Generate(u.ID(), u.Email(), u.Role())
	if err != nil {
		log.Errorw("failed to sign session token", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{AccessToken: token, ExpiresAt: expiresAt}, nil
}
