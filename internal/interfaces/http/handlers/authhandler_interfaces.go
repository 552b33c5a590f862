package handlers

import (
	"context"

	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/domain/user"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginWithPasswordCommand) (*usecases.LoginWithPasswordResult, error)
}

type initiateOAuthUseCase interface {
	Execute(ctx context.Context, cmd usecases.InitiateOAuthLoginCommand) (*usecases.InitiateOAuthLoginResult, error)
}

type handleOAuthCallbackUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleOAuthCallbackCommand) (*usecases.HandleOAuthCallbackResult, error)
}

type getCurrentUserUseCase interface {
	Execute(ctx context.Context, userID uint) (*user.User, error)
}
