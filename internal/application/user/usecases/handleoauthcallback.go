package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type HandleOAuthCallbackCommand struct {
	Code  string
	State string
	// CookieState is the state echoed back by the browser cookie set on initiation.
	CookieState string
}

type HandleOAuthCallbackResult struct {
	User       *user.User
	Session    Session
	IsNewUser  bool
	RedirectTo string
}

type HandleOAuthCallbackUseCase struct {
	userRepo   user.Repository
	client     OAuthClient
	stateStore StateStore
	jwtService JWTService
	logger     logger.Interface
	now        func() time.Time
}

func NewHandleOAuthCallbackUseCase(
	userRepo user.Repository,
	client OAuthClient,
	stateStore StateStore,
	jwtService JWTService,
	logger logger.Interface,
) *HandleOAuthCallbackUseCase {
	return &HandleOAuthCallbackUseCase{
		userRepo:   userRepo,
		client:     client,
		stateStore: stateStore,
		jwtService: jwtService,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *HandleOAuthCallbackUseCase) Execute(ctx context.Context, cmd HandleOAuthCallbackCommand) (*HandleOAuthCallbackResult, error) {
	if uc.client == nil {
		return nil, errors.NewBadRequestError("google login is not configured")
	}
	if cmd.Code == "" {
		return nil, errors.NewValidationError("authorization code is required")
	}
	if cmd.State == "" || cmd.State != cmd.CookieState {
		return nil, errors.NewUnauthorizedError("invalid or expired state parameter")
	}

	stateInfo, err := uc.stateStore.VerifyAndGet(ctx, cmd.State)
	if err != nil {
		uc.logger.Warnw("invalid or expired OAuth state", "error", err)
		return nil, errors.NewUnauthorizedError("invalid or expired state parameter")
	}

	accessToken, err := uc.client.ExchangeCode(ctx, cmd.Code, stateInfo.CodeVerifier)
	if err != nil {
		uc.logger.Errorw("failed to exchange code", "error", err)
		return nil, errors.NewUnauthorizedError("failed to exchange authorization code")
	}

	info, err := uc.client.GetUserInfo(ctx, accessToken)
	if err != nil {
		uc.logger.Errorw("failed to get user info", "error", err)
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	if !info.EmailVerified {
		return nil, errors.NewForbiddenError("google account email is not verified")
	}

	email, err := user.NormalizeEmail(info.Email)
	if err != nil {
		return nil, errors.NewValidationError("google account has no usable email", err.Error())
	}

	existingUser, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	isNewUser := false
	if existingUser == nil {
		existingUser, err = uc.createUser(ctx, email, info.Name)
		if err != nil {
			return nil, err
		}
		isNewUser = true
	}

	if !existingUser.IsActive() {
		return nil, errors.NewForbiddenError("account is disabled")
	}

	session, err := issueSession(ctx, uc.userRepo, uc.jwtService, existingUser, uc.now(), uc.logger)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user logged in", "user_id", existingUser.ID(), "method", "google", "new_user", isNewUser)

	return &HandleOAuthCallbackResult{
		User:       existingUser,
		Session:    *session,
		IsNewUser:  isNewUser,
		RedirectTo: stateInfo.RedirectTo,
	}, nil
}

// createUser registers a customer account for a first Google sign-in.
func (uc *HandleOAuthCallbackUseCase) createUser(ctx context.Context, email, name string) (*user.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	newUser, err := user.NewUser(email, name, authorization.RoleCustomer)
	if err != nil {
		return nil, errors.NewValidationError("cannot create account", err.Error())
	}
	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		uc.logger.Errorw("failed to create user from oauth", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return newUser, nil
}
