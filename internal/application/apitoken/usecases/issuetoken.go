package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lumishop/shopadmin/internal/application/apitoken/dto"
	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

const (
	TokenPrefix = "sk_live_"

	maxExpiresInDays = 3650
)

type IssueTokenCommand struct {
	UserID        uint
	Name          string
	Permissions   []string
	RateLimit     int // 0 selects the configured default
	ExpiresInDays int // 0 means the token never expires
}

// RateLimitPolicy bounds the per-minute quota a token may be issued with.
type RateLimitPolicy struct {
	Default int
	Max     int
}

type IssueTokenUseCase struct {
	tokenRepo      apitoken.Repository
	userRepo       user.Repository
	tokenGenerator TokenGenerator
	policy         RateLimitPolicy
	now            Clock
	logger         logger.Interface
}

func NewIssueTokenUseCase(
	tokenRepo apitoken.Repository,
	userRepo user.Repository,
	tokenGenerator TokenGenerator,
	policy RateLimitPolicy,
	logger logger.Interface,
) *IssueTokenUseCase {
	if policy.Default <= 0 {
		policy.Default = 60
	}
	if policy.Max < policy.Default {
		policy.Max = policy.Default
	}
	return &IssueTokenUseCase{
		tokenRepo:      tokenRepo,
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		policy:         policy,
		now:            biztime.NowUTC,
		logger:         logger,
	}
}

func (uc *IssueTokenUseCase) Execute(ctx context.Context, cmd IssueTokenCommand) (*dto.IssuedTokenDTO, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, errors.NewValidationError("token name is required")
	}

	perms, err := apitoken.ParsePermissions(cmd.Permissions)
	if err != nil {
		return nil, errors.NewFieldValidationError("Validation failed", map[string]string{
			"permissions": err.Error(),
		})
	}

	rateLimit := cmd.RateLimit
	if rateLimit == 0 {
		rateLimit = uc.policy.Default
	}
	if rateLimit < 0 || rateLimit > uc.policy.Max {
		return nil, errors.NewFieldValidationError("Validation failed", map[string]string{
			"rate_limit": fmt.Sprintf("must be between 1 and %d", uc.policy.Max),
		})
	}

	if cmd.ExpiresInDays < 0 || cmd.ExpiresInDays > maxExpiresInDays {
		return nil, errors.NewFieldValidationError("Validation failed", map[string]string{
			"expires_in_days": fmt.Sprintf("must be between 0 and %d", maxExpiresInDays),
		})
	}

	owner, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get token owner", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if owner == nil {
		return nil, errors.NewNotFoundError("user not found")
	}
	if !owner.IsActive() {
		return nil, errors.NewForbiddenError("user account is disabled")
	}

	var expiresAt *time.Time
	if cmd.ExpiresInDays > 0 {
		t := uc.now().AddDate(0, 0, cmd.ExpiresInDays)
		expiresAt = &t
	}

	plainToken, tokenHash, err := uc.tokenGenerator.Generate(TokenPrefix)
	if err != nil {
		uc.logger.Errorw("failed to generate token", "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token, err := apitoken.NewAPIToken(
		owner.ID(),
		name,
		tokenHash,
		uc.tokenGenerator.DisplayPrefix(plainToken),
		perms,
		rateLimit,
		expiresAt,
	)
	if err != nil {
		return nil, errors.NewValidationError("invalid token", err.Error())
	}

	if err := uc.tokenRepo.Create(ctx, token); err != nil {
		uc.logger.Errorw("failed to persist api token", "error", err, "user_id", owner.ID())
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	uc.logger.Infow("api token issued",
		"token_id", token.SID(),
		"user_id", owner.ID(),
		"permissions", perms.Strings(),
		"rate_limit", rateLimit,
	)

	return &dto.IssuedTokenDTO{
		APITokenDTO: *dto.ToAPITokenDTO(token),
		Token:       plainToken,
	}, nil
}
