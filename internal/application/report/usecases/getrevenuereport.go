package usecases

import (
	"context"

	"github.com/lumishop/shopadmin/internal/application/report/dto"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/domain/report"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type GetRevenueReportQuery struct {
	Type string
	Date string
}

type GetRevenueReportUseCase struct {
	orderRepo order.Repository
	logger    logger.Interface
}

func NewGetRevenueReportUseCase(orderRepo order.Repository, logger logger.Interface) *GetRevenueReportUseCase {
	return &GetRevenueReportUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *GetRevenueReportUseCase) Execute(ctx context.Context, query GetRevenueReportQuery) (*dto.RevenueReportDTO, error) {
	w, orders, err := loadCompleted(ctx, uc.orderRepo, query.Type, query.Date)
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to build revenue report", "error", err, "type", query.Type, "date", query.Date)
		}
		return nil, err
	}

	stats, products := report.Summarize(orders)

	uc.logger.Debugw("revenue report built",
		"type", w.Type,
		"date", w.Label,
		"order_count", stats.OrderCount,
	)

	return dto.ToRevenueReportDTO(w, orders, stats, products), nil
}
