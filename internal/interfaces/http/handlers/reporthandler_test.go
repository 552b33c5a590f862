package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/application/report/dto"
	"github.com/lumishop/shopadmin/internal/application/report/usecases"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers/testutil"
	"github.com/lumishop/shopadmin/internal/shared/errors"
)

type mockGetRevenueReportUC struct {
	got    usecases.GetRevenueReportQuery
	result *dto.RevenueReportDTO
	err    error
}

func (m *mockGetRevenueReportUC) Execute(ctx context.Context, query usecases.GetRevenueReportQuery) (*dto.RevenueReportDTO, error) {
	m.got = query
	return m.result, m.err
}

type mockExportRevenueReportUC struct {
	got    usecases.ExportRevenueReportQuery
	result *usecases.ExportRevenueReportResult
	err    error
}

func (m *mockExportRevenueReportUC) Execute(ctx context.Context, query usecases.ExportRevenueReportQuery) (*usecases.ExportRevenueReportResult, error) {
	m.got = query
	return m.result, m.err
}

type mockMailRevenueReportUC struct {
	got    usecases.MailRevenueReportCommand
	called bool
	err    error
}

func (m *mockMailRevenueReportUC) Execute(ctx context.Context, cmd usecases.MailRevenueReportCommand) error {
	m.got = cmd
	m.called = true
	return m.err
}

type reportFixture struct {
	get    *mockGetRevenueReportUC
	export *mockExportRevenueReportUC
	mail   *mockMailRevenueReportUC
	router http.Handler
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		get:    &mockGetRevenueReportUC{},
		export: &mockExportRevenueReportUC{},
		mail:   &mockMailRevenueReportUC{},
	}
	h := NewReportHandler(f.get, f.export, f.mail, testutil.NewMockLogger())

	r := newTestRouter(1, "staff")
	r.GET("/reports/revenue", h.Revenue)
	r.GET("/reports/revenue/export", h.Export)
	r.POST("/reports/revenue/mail", h.Mail)
	f.router = r
	return f
}

func TestReportHandler_Revenue(t *testing.T) {
	f := newReportFixture()
	f.get.result = &dto.RevenueReportDTO{
		Type:  "daily",
		Date:  "2025-01-15",
		Stats: dto.StatsDTO{OrderCount: 2, TotalRevenue: 450000},
	}

	w := doJSON(f.router, http.MethodGet, "/reports/revenue?type=daily&date=2025-01-15", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.GetRevenueReportQuery{Type: "daily", Date: "2025-01-15"}, f.get.got)
	assert.Contains(t, w.Body.String(), `"order_count":2`)
	assert.Contains(t, w.Body.String(), `"total_revenue":450000`)
}

func TestReportHandler_RevenueDefaultsToDaily(t *testing.T) {
	f := newReportFixture()
	f.get.result = &dto.RevenueReportDTO{}

	doJSON(f.router, http.MethodGet, "/reports/revenue?date=2025-01-15", nil)
	assert.Equal(t, "daily", f.get.got.Type)
}

func TestReportHandler_RevenueBadInput(t *testing.T) {
	f := newReportFixture()
	f.get.err = errors.NewValidationError("unknown report type")

	w := doJSON(f.router, http.MethodGet, "/reports/revenue?type=weekly&date=2025-01-15", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_Export(t *testing.T) {
	f := newReportFixture()
	f.export.result = &usecases.ExportRevenueReportResult{
		Filename:    "revenue-monthly-2025-01.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("Order Code,Customer\n"),
	}

	w := doJSON(f.router, http.MethodGet, "/reports/revenue/export?type=monthly&date=2025-01", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="revenue-monthly-2025-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Order Code,Customer\n", w.Body.String())
	assert.Equal(t, usecases.ExportRevenueReportQuery{Type: "monthly", Date: "2025-01"}, f.export.got)
}

func TestReportHandler_Mail(t *testing.T) {
	f := newReportFixture()

	w := doJSON(f.router, http.MethodPost, "/reports/revenue/mail", map[string]any{
		"type":       "daily",
		"date":       "2025-01-15",
		"recipients": []string{"owner@shop.vn"},
	})

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, usecases.MailRevenueReportCommand{
		Type:       "daily",
		Date:       "2025-01-15",
		Recipients: []string{"owner@shop.vn"},
	}, f.mail.got)

	f = newReportFixture()
	w = doJSON(f.router, http.MethodPost, "/reports/revenue/mail", map[string]any{
		"type":       "daily",
		"date":       "2025-01-15",
		"recipients": []string{"not-an-email"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, f.mail.called)
}
