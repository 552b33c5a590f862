package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type GetCurrentUserUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetCurrentUserUseCase(userRepo user.Repository, logger logger.Interface) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{userRepo: userRepo, logger: logger}
}

// Execute loads the session owner. A user deleted or disabled after login is treated as signed out.
func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, userID uint) (*user.User, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || !u.IsActive() {
		return nil, errors.NewUnauthorizedError("session is no longer valid")
	}
	return u, nil
}
