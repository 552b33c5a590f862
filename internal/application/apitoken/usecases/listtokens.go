package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/application/apitoken/dto"
	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type ListTokensQuery struct {
	UserID uint
}

type ListTokensUseCase struct {
	tokenRepo apitoken.Repository
	logger    logger.Interface
}

func NewListTokensUseCase(tokenRepo apitoken.Repository, logger logger.Interface) *ListTokensUseCase {
	return &ListTokensUseCase{
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

func (uc *ListTokensUseCase) Execute(ctx context.Context, query ListTokensQuery) ([]*dto.APITokenDTO, error) {
	tokens, err := uc.tokenRepo.ListByUserID(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list api tokens", "error", err, "user_id", query.UserID)
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	return dto.ToAPITokenDTOList(tokens), nil
}
