package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// ExpiredTokenRetention is how long expired tokens stay visible before deletion.
const ExpiredTokenRetention = 30 * 24 * time.Hour

type CleanupExpiredTokensUseCase struct {
	tokenRepo apitoken.Repository
	now       Clock
	logger    logger.Interface
}

func NewCleanupExpiredTokensUseCase(tokenRepo apitoken.Repository, logger logger.Interface) *CleanupExpiredTokensUseCase {
	return &CleanupExpiredTokensUseCase{
		tokenRepo: tokenRepo,
		now:       biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *CleanupExpiredTokensUseCase) Execute(ctx context.Context) (int64, error) {
	cutoff := uc.now().Add(-ExpiredTokenRetention)

	deleted, err := uc.tokenRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to delete expired api tokens", "error", err, "cutoff", cutoff)
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	if deleted > 0 {
		uc.logger.Infow("expired api tokens deleted", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
