package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/mappers"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
	"github.com/lumishop/shopadmin/internal/shared/db"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type APITokenRepository struct {
	db     *gorm.DB
	mapper mappers.APITokenMapper
	logger logger.Interface
}

func NewAPITokenRepository(db *gorm.DB, logger logger.Interface) *APITokenRepository {
	return &APITokenRepository{
		db:     db,
		mapper: mappers.NewAPITokenMapper(),
		logger: logger,
	}
}

func (r *APITokenRepository) Create(ctx context.Context, token *apitoken.APIToken) error {
	model, err := r.mapper.ToModel(token)
	if err != nil {
		return fmt.Errorf("failed to convert token to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create api token", "error", err, "user_id", token.UserID())
		return fmt.Errorf("failed to create api token: %w", err)
	}

	if err := token.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("api token created", "token_id", model.ID, "user_id", token.UserID())
	return nil
}

func (r *APITokenRepository) GetBySID(ctx context.Context, sid string) (*apitoken.APIToken, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *APITokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*apitoken.APIToken, error) {
	return r.first(ctx, "token_hash = ?", tokenHash)
}

func (r *APITokenRepository) first(ctx context.Context, query string, arg interface{}) (*apitoken.APIToken, error) {
	var model models.APITokenModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get api token", "error", err)
		return nil, fmt.Errorf("failed to get api token: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *APITokenRepository) ListByUserID(ctx context.Context, userID uint) ([]*apitoken.APIToken, error) {
	var tokenModels []*models.APITokenModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tokenModels).Error
	if err != nil {
		r.logger.Errorw("failed to list api tokens", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list api tokens: %w", err)
	}
	return r.mapper.ToEntities(tokenModels)
}

func (r *APITokenRepository) Update(ctx context.Context, token *apitoken.APIToken) error {
	model, err := r.mapper.ToModel(token)
	if err != nil {
		return fmt.Errorf("failed to convert token to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.APITokenModel{}).
		Where("id = ?", token.ID()).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"permissions": model.Permissions,
			"rate_limit":  model.RateLimit,
			"expires_at":  model.ExpiresAt,
			"is_active":   model.IsActive,
			"revoked_at":  model.RevokedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update api token", "error", result.Error, "token_id", token.ID())
		return fmt.Errorf("failed to update api token: %w", result.Error)
	}
	return nil
}

func (r *APITokenRepository) UpdateLastUsed(ctx context.Context, tokenID uint, usedAt time.Time) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.APITokenModel{}).
		Where("id = ?", tokenID).
		UpdateColumn("last_used_at", usedAt.UTC()).Error
	if err != nil {
		return fmt.Errorf("failed to update token last used: %w", err)
	}
	return nil
}

func (r *APITokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("expires_at IS NOT NULL AND expires_at < ?", cutoff.UTC()).
		Delete(&models.APITokenModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete expired tokens", "error", result.Error)
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
