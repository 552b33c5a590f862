package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/mappers"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
	"github.com/lumishop/shopadmin/internal/shared/constants"
	"github.com/lumishop/shopadmin/internal/shared/db"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type OrderRepository struct {
	db     *gorm.DB
	mapper mappers.OrderMapper
	logger logger.Interface
}

func NewOrderRepository(db *gorm.DB, logger logger.Interface) *OrderRepository {
	return &OrderRepository{
		db:     db,
		mapper: mappers.NewOrderMapper(),
		logger: logger,
	}
}

// Create inserts the order and its items in one statement group.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := r.mapper.ToModel(o)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return o.SetID(model.ID)
}

func (r *OrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	var model models.OrderModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("code = ?", code).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get order", "order_code", code, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.OrderModel{}).
		Where("id = ?", o.ID()).
		Updates(map[string]interface{}{
			"status":       o.Status().String(),
			"completed_at": o.CompletedAt(),
			"updated_at":   o.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update order status", "order_code", o.Code(), "error", result.Error)
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.OrderModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		query = query.Where("(code LIKE ? ESCAPE '\\' OR customer_name LIKE ? ESCAPE '\\' OR customer_phone LIKE ? ESCAPE '\\')",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count orders", "error", err)
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}

	var orderModels []*models.OrderModel
	err := query.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orderModels).Error
	if err != nil {
		r.logger.Errorw("failed to list orders", "error", err)
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, err := r.mapper.ToEntities(orderModels)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*order.Order, error) {
	var orderModels []*models.OrderModel
	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("status = ?", order.StatusCompleted.String()).
		Where("completed_at >= ? AND completed_at <= ?", start.UTC(), end.UTC()).
		Order("completed_at DESC, code ASC").
		Find(&orderModels).Error
	if err != nil {
		r.logger.Errorw("failed to list completed orders", "error", err)
		return nil, fmt.Errorf("failed to list completed orders: %w", err)
	}
	return r.mapper.ToEntities(orderModels)
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
