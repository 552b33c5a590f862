package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/application/report/dto"
	"github.com/lumishop/shopadmin/internal/application/report/usecases"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type getRevenueReportUseCase interface {
	Execute(ctx context.Context, query usecases.GetRevenueReportQuery) (*dto.RevenueReportDTO, error)
}

type exportRevenueReportUseCase interface {
	Execute(ctx context.Context, query usecases.ExportRevenueReportQuery) (*usecases.ExportRevenueReportResult, error)
}

type mailRevenueReportUseCase interface {
	Execute(ctx context.Context, cmd usecases.MailRevenueReportCommand) error
}

type ReportHandler struct {
	getUC    getRevenueReportUseCase
	exportUC exportRevenueReportUseCase
	mailUC   mailRevenueReportUseCase
	logger   logger.Interface
}

func NewReportHandler(
	getUC getRevenueReportUseCase,
	exportUC exportRevenueReportUseCase,
	mailUC mailRevenueReportUseCase,
	logger logger.Interface,
) *ReportHandler {
	return &ReportHandler{
		getUC:    getUC,
		exportUC: exportUC,
		mailUC:   mailUC,
		logger:   logger,
	}
}

type MailRevenueReportRequest struct {
	Type       string   `json:"type" binding:"required,oneof=daily monthly yearly"`
	Date       string   `json:"date" binding:"required,max=10"`
	Recipients []string `json:"recipients" binding:"omitempty,max=20,dive,email"`
}

// Revenue handles GET /reports/revenue?type=daily&date=2025-01-15
// @Summary Revenue report
// @Tags Reports
// @Produce json
// @Param type query string false "daily, monthly or yearly" default(daily)
// @Param date query string false "Reference date, defaults to today in business time"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/v1/reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetRevenueReportQuery{
		Type: c.DefaultQuery("type", "daily"),
		Date: c.Query("date"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Export handles GET /reports/revenue/export and streams the rendered file.
// @Summary Export revenue report
// @Tags Reports
// @Produce text/csv
// @Param type query string false "daily, monthly or yearly" default(daily)
// @Param date query string false "Reference date"
// @Success 200 {file} file
// @Router /api/v1/reports/revenue/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	result, err := h.exportUC.Execute(c.Request.Context(), usecases.ExportRevenueReportQuery{
		Type: c.DefaultQuery("type", "daily"),
		Date: c.Query("date"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Content-Length", strconv.Itoa(len(result.Data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Mail handles POST /reports/revenue/mail. Recipients default to the configured list.
func (h *ReportHandler) Mail(c *gin.Context) {
	var req MailRevenueReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for mail revenue report", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	if err := h.mailUC.Execute(c.Request.Context(), usecases.MailRevenueReportCommand{
		Type:       req.Type,
		Date:       req.Date,
		Recipients: req.Recipients,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Report sent", nil)
}
