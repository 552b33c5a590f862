package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportUsecases "github.com/lumishop/shopadmin/internal/application/report/usecases"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/infrastructure/export"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type emptyOrders struct {
	order.Repository
}

func (emptyOrders) ListCompletedBetween(context.Context, time.Time, time.Time) ([]*order.Order, error) {
	return nil, nil
}

type capturingMailer struct {
	to       []string
	subject  string
	filename string
}

func (m *capturingMailer) SendReport(_ context.Context, to []string, subject, _ string, a reportUsecases.Attachment) error {
	m.to = to
	m.subject = subject
	m.filename = a.Filename
	return nil
}

func TestDailyReportSender(t *testing.T) {
	log := logger.NewNop()
	exportUC := reportUsecases.NewExportRevenueReportUseCase(emptyOrders{}, export.NewCSVRenderer("vi"), log)
	mailer := &capturingMailer{}
	mailUC := reportUsecases.NewMailRevenueReportUseCase(exportUC, mailer, []string{"owner@lumi.vn"}, log)

	err := dailyReportSender{mail: mailUC}.SendDailyReport(context.Background(), "2025-01-15")
	require.NoError(t, err)

	assert.Equal(t, []string{"owner@lumi.vn"}, mailer.to)
	assert.Contains(t, mailer.subject, "2025-01-15")
	assert.Contains(t, mailer.subject, "daily")
	assert.Contains(t, mailer.filename, "2025-01-15")
}
