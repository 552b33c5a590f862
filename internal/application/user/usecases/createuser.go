package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// CreateUserCommand is used by the bootstrap CLI to create back-office accounts.
type CreateUserCommand struct {
	Email    string
	Name     string
	Role     authorization.UserRole
	Password string
}

type CreateUserUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	logger   logger.Interface
}

func NewCreateUserUseCase(userRepo user.Repository, hasher user.PasswordHasher, logger logger.Interface) *CreateUserUseCase {
	return &CreateUserUseCase{userRepo: userRepo, hasher: hasher, logger: logger}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*user.User, error) {
	newUser, err := user.NewUser(cmd.Email, cmd.Name, cmd.Role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	existing, err := uc.userRepo.GetByEmail(ctx, newUser.Email())
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("email already registered")
	}

	if cmd.Password != "" {
		if err := newUser.SetPassword(cmd.Password, uc.hasher); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		uc.logger.Errorw("failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Infow("user created", "user_id", newUser.ID(), "role", newUser.Role())
	return newUser, nil
}
