package usecases

import (
	"context"
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/domain/report"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type ExportRevenueReportQuery struct {
	Type string
	Date string
}

type ExportRevenueReportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Table       report.Table
}

type ExportRevenueReportUseCase struct {
	orderRepo order.Repository
	renderer  TableRenderer
	logger    logger.Interface
}

func NewExportRevenueReportUseCase(orderRepo order.Repository, renderer TableRenderer, logger logger.Interface) *ExportRevenueReportUseCase {
	return &ExportRevenueReportUseCase{
		orderRepo: orderRepo,
		renderer:  renderer,
		logger:    logger,
	}
}

func (uc *ExportRevenueReportUseCase) Execute(ctx context.Context, query ExportRevenueReportQuery) (*ExportRevenueReportResult, error) {
	w, orders, err := loadCompleted(ctx, uc.orderRepo, query.Type, query.Date)
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to load revenue export", "error", err, "type", query.Type, "date", query.Date)
		}
		return nil, err
	}

	table := report.BuildTable(w, orders)

	data, err := uc.renderer.Render(table)
	if err != nil {
		uc.logger.Errorw("failed to render revenue export", "error", err, "type", w.Type, "date", w.Label)
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &ExportRevenueReportResult{
		Filename:    ExportFilename(w, uc.renderer.Extension()),
		ContentType: uc.renderer.ContentType(),
		Data:        data,
		Table:       table,
	}, nil
}

// ExportFilename returns e.g. "revenue-daily-2025-01-15.csv".
func ExportFilename(w report.Window, ext string) string {
	return fmt.Sprintf("revenue-%s-%s.%s", w.Type, w.Label, ext)
}
