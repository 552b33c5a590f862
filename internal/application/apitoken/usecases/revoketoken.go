package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/id"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type RevokeTokenCommand struct {
	TokenSID string
	UserID   uint
	UserRole authorization.UserRole
}

type RevokeTokenUseCase struct {
	tokenRepo apitoken.Repository
	logger    logger.Interface
}

func NewRevokeTokenUseCase(tokenRepo apitoken.Repository, logger logger.Interface) *RevokeTokenUseCase {
	return &RevokeTokenUseCase{
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

func (uc *RevokeTokenUseCase) Execute(ctx context.Context, cmd RevokeTokenCommand) error {
	if err := id.ValidatePrefix(cmd.TokenSID, id.PrefixAPIToken); err != nil {
		return errors.NewValidationError("invalid token id", err.Error())
	}

	token, err := uc.tokenRepo.GetBySID(ctx, cmd.TokenSID)
	if err != nil {
		uc.logger.Errorw("failed to get api token", "error", err, "token_id", cmd.TokenSID)
		return fmt.Errorf("failed to get token: %w", err)
	}
	// Someone else's token looks the same as a missing one.
	if token == nil || !authorization.CanAccessResourceByOwnerID(cmd.UserID, cmd.UserRole, token.UserID()) {
		return errors.NewNotFoundError("token not found")
	}

	if err := token.Revoke(); err != nil {
		if stderrors.Is(err, apitoken.ErrAlreadyRevoked) {
			return errors.NewConflictError("token already revoked")
		}
		return err
	}

	if err := uc.tokenRepo.Update(ctx, token); err != nil {
		uc.logger.Errorw("failed to revoke api token", "error", err, "token_id", cmd.TokenSID)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	uc.logger.Infow("api token revoked", "token_id", cmd.TokenSID, "revoked_by", cmd.UserID)
	return nil
}
