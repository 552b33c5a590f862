package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/domain/report"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
)

// loadCompleted resolves the window and returns the completed orders inside it, newest
// first. An empty date means today in business time.
func loadCompleted(ctx context.Context, repo order.Repository, reportType, date string) (report.Window, []*order.Order, error) {
	t, err := report.ParseType(reportType)
	if err != nil {
		return report.Window{}, nil, errors.NewFieldValidationError("Validation failed", map[string]string{"type": err.Error()})
	}

	if strings.TrimSpace(date) == "" {
		date = biztime.FormatInBizTimezone(biztime.NowUTC(), "2006-01-02")
	}

	w, err := report.NewWindow(t, date)
	if err != nil {
		return report.Window{}, nil, errors.NewFieldValidationError("Validation failed", map[string]string{"date": "invalid date for " + string(t) + " report"})
	}

	orders, err := repo.ListCompletedBetween(ctx, w.Start, w.End)
	if err != nil {
		return report.Window{}, nil, fmt.Errorf("failed to load orders: %w", err)
	}

	return w, report.SelectCompleted(w, orders), nil
}
