package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

// maskedTokenChars is how much of an unknown token is logged, enough to spot the prefix.
const maskedTokenChars = 12

type AuthenticateTokenCommand struct {
	PlainToken string
	// Required is the permission the route demands; empty skips the check.
	Required apitoken.Permission
}

type AuthenticateTokenResult struct {
	Token *apitoken.APIToken
	User  *user.User
}

// AuthenticateTokenUseCase resolves a presented bearer token to its record and owner.
// Every credential failure is the same 401 so callers cannot tell which check failed.
type AuthenticateTokenUseCase struct {
	tokenRepo      apitoken.Repository
	userRepo       user.Repository
	tokenGenerator TokenGenerator
	now            Clock
	logger         logger.Interface
}

func NewAuthenticateTokenUseCase(
	tokenRepo apitoken.Repository,
	userRepo user.Repository,
	tokenGenerator TokenGenerator,
	logger logger.Interface,
) *AuthenticateTokenUseCase {
	return &AuthenticateTokenUseCase{
		tokenRepo:      tokenRepo,
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		now:            biztime.NowUTC,
		logger:         logger,
	}
}

func (uc *AuthenticateTokenUseCase) Execute(ctx context.Context, cmd AuthenticateTokenCommand) (*AuthenticateTokenResult, error) {
	if cmd.PlainToken == "" {
		return nil, errors.NewUnauthorizedError("missing api token")
	}

	token, err := uc.tokenRepo.GetByTokenHash(ctx, uc.tokenGenerator.Hash(cmd.PlainToken))
	if err != nil {
		uc.logger.Errorw("failed to look up api token", "error", err)
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if token == nil {
		uc.logger.Debugw("unknown api token presented", "token", utils.MaskToken(cmd.PlainToken, maskedTokenChars))
		return nil, errors.NewUnauthorizedError("invalid api token")
	}

	if !token.IsUsableAt(uc.now()) {
		uc.logger.Warnw("rejected unusable api token",
			"token_id", token.SID(),
			"active", token.IsActive(),
			"revoked", token.IsRevoked(),
		)
		return nil, errors.NewUnauthorizedError("invalid api token")
	}

	owner, err := uc.userRepo.GetByID(ctx, token.UserID())
	if err != nil {
		uc.logger.Errorw("failed to get token owner", "error", err, "user_id", token.UserID())
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if owner == nil || !owner.IsActive() {
		uc.logger.Warnw("rejected api token of missing or disabled user",
			"token_id", token.SID(),
			"user_id", token.UserID(),
		)
		return nil, errors.NewUnauthorizedError("invalid api token")
	}

	if cmd.Required != "" && !token.Allows(cmd.Required) {
		uc.logger.Warnw("api token lacks permission",
			"token_id", token.SID(),
			"required", cmd.Required.String(),
			"granted", token.Permissions().Strings(),
		)
		return nil, errors.NewForbiddenError("api token lacks required permission", cmd.Required.String())
	}

	return &AuthenticateTokenResult{
		Token: token,
		User:  owner,
	}, nil
}
