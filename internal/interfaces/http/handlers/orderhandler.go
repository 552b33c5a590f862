package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/application/order/dto"
	"github.com/lumishop/shopadmin/internal/application/order/usecases"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type createOrderUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateOrderCommand) (*dto.OrderDTO, error)
}

type getOrderUseCase interface {
	Execute(ctx context.Context, code string) (*dto.OrderDTO, error)
}

type listOrdersUseCase interface {
	Execute(ctx context.Context, query usecases.ListOrdersQuery) (*usecases.ListOrdersResult, error)
}

type updateOrderStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateOrderStatusCommand) (*dto.OrderDTO, error)
}

type OrderHandler struct {
	createUC       createOrderUseCase
	getUC          getOrderUseCase
	listUC         listOrdersUseCase
	updateStatusUC updateOrderStatusUseCase
	logger         logger.Interface
}

func NewOrderHandler(
	createUC createOrderUseCase,
	getUC getOrderUseCase,
	listUC listOrdersUseCase,
	updateStatusUC updateOrderStatusUseCase,
	logger logger.Interface,
) *OrderHandler {
	return &OrderHandler{
		createUC:       createUC,
		getUC:          getUC,
		listUC:         listUC,
		updateStatusUC: updateStatusUC,
		logger:         logger,
	}
}

type CreateOrderItemRequest struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name" binding:"required,max=200"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	UnitPrice   int64  `json:"unit_price" binding:"min=0"`
}

type CreateOrderRequest struct {
	CustomerName  string                   `json:"customer_name" binding:"required,max=100"`
	CustomerPhone string                   `json:"customer_phone" binding:"omitempty,max=20,halfwidth"`
	Status        string                   `json:"status" binding:"omitempty,orderstatus"`
	PaymentMethod string                   `json:"payment_method" binding:"omitempty,max=20"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      int64                    `json:"discount" binding:"min=0"`
	ShippingFee   int64                    `json:"shipping_fee" binding:"min=0"`
	Note          string                   `json:"note" binding:"max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

// List handles GET /orders?page=&page_size=&status=&q=
// @Summary List orders
// @Description Paginated order list, newest first. Served under /api/admin (session) and /api/v1 (API token).
// @Tags Orders
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param status query string false "pending, processing, shipping, completed, cancelled or refunded"
// @Param q query string false "Matches code, customer name or phone"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListOrdersQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
		Status:   c.Query("status"),
		Search:   strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Orders, result.Total, p.Page, p.PageSize)
}

// Get handles GET /orders/:code
// @Summary Get order
// @Tags Orders
// @Produce json
// @Param code path string true "Order code"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/orders/{code} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	code, err := orderCodeParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), code)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Create handles POST /orders
// @Summary Create order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order with at least one item"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create order", "error", err, "ip", c.ClientIP())
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	items := make([]usecases.CreateOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecases.CreateOrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateOrderCommand{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
		Discount:      req.Discount,
		ShippingFee:   req.ShippingFee,
		Note:          req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Order created successfully")
}

// UpdateStatus handles PATCH /orders/:code/status
// @Summary Change order status
// @Tags Orders
// @Accept json
// @Produce json
// @Param code path string true "Order code"
// @Param request body UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/orders/{code}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	code, err := orderCodeParam(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update order status", "code", code, "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateOrderStatusCommand{
		Code:   code,
		Status: req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Order status updated", result)
}

func orderCodeParam(c *gin.Context) (string, error) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" || len(code) > 32 {
		return "", errors.NewValidationError("invalid order code")
	}
	return code, nil
}
