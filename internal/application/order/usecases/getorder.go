package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/application/order/dto"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type GetOrderUseCase struct {
	orderRepo order.Repository
	logger    logger.Interface
}

func NewGetOrderUseCase(orderRepo order.Repository, logger logger.Interface) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, code string) (*dto.OrderDTO, error) {
	o, err := uc.orderRepo.GetByCode(ctx, code)
	if err != nil {
		uc.logger.Errorw("failed to get order", "error", err, "order_code", code)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if o == nil {
		return nil, errors.NewNotFoundError("order not found", code)
	}
	return dto.ToOrderDTO(o), nil
}
