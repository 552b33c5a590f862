package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/application/order/dto"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type ListOrdersQuery struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

type ListOrdersResult struct {
	Orders []*dto.OrderDTO
	Total  int64
}

type ListOrdersUseCase struct {
	orderRepo order.Repository
	logger    logger.Interface
}

func NewListOrdersUseCase(orderRepo order.Repository, logger logger.Interface) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, query ListOrdersQuery) (*ListOrdersResult, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := order.ListFilter{
		Page:     p.Page,
		PageSize: p.PageSize,
		Search:   query.Search,
	}

	if query.Status != "" {
		status, err := order.ParseStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("invalid status filter", err.Error())
		}
		filter.Status = status
	}

	orders, total, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list orders", "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ListOrdersResult{
		Orders: dto.ToOrderDTOList(orders),
		Total:  total,
	}, nil
}
