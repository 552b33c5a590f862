package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/application/order/dto"
	"github.com/lumishop/shopadmin/internal/application/order/usecases"
	"github.com/lumishop/shopadmin/internal/interfaces/http/handlers/testutil"
	"github.com/lumishop/shopadmin/internal/shared/errors"
)

type mockCreateOrderUC struct {
	got    usecases.CreateOrderCommand
	called bool
	result *dto.OrderDTO
	err    error
}

func (m *mockCreateOrderUC) Execute(ctx context.Context, cmd usecases.CreateOrderCommand) (*dto.OrderDTO, error) {
	m.got = cmd
	m.called = true
	return m.result, m.err
}

type mockGetOrderUC struct {
	result *dto.OrderDTO
	err    error
}

func (m *mockGetOrderUC) Execute(ctx context.Context, code string) (*dto.OrderDTO, error) {
	return m.result, m.err
}

type mockListOrdersUC struct {
	got    usecases.ListOrdersQuery
	result *usecases.ListOrdersResult
	err    error
}

func (m *mockListOrdersUC) Execute(ctx context.Context, query usecases.ListOrdersQuery) (*usecases.ListOrdersResult, error) {
	m.got = query
	return m.result, m.err
}

type mockUpdateOrderStatusUC struct {
	got    usecases.UpdateOrderStatusCommand
	result *dto.OrderDTO
	err    error
}

func (m *mockUpdateOrderStatusUC) Execute(ctx context.Context, cmd usecases.UpdateOrderStatusCommand) (*dto.OrderDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type orderFixture struct {
	create *mockCreateOrderUC
	get    *mockGetOrderUC
	list   *mockListOrdersUC
	update *mockUpdateOrderStatusUC
	router http.Handler
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		create: &mockCreateOrderUC{},
		get:    &mockGetOrderUC{},
		list:   &mockListOrdersUC{result: &usecases.ListOrdersResult{}},
		update: &mockUpdateOrderStatusUC{},
	}
	h := NewOrderHandler(f.create, f.get, f.list, f.update, testutil.NewMockLogger())

	r := newTestRouter(1, "staff")
	r.GET("/orders", h.List)
	r.GET("/orders/:code", h.Get)
	r.POST("/orders", h.Create)
	r.PATCH("/orders/:code/status", h.UpdateStatus)
	f.router = r
	return f
}

func TestOrderHandler_ListPassesFilters(t *testing.T) {
	f := newOrderFixture()
	f.list.result = &usecases.ListOrdersResult{
		Orders: []*dto.OrderDTO{{Code: "DH001"}, {Code: "DH002"}},
		Total:  42,
	}

	w := doJSON(f.router, http.MethodGet, "/orders?page=2&page_size=10&status=completed&q=%20Lan%20", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ListOrdersQuery{Page: 2, PageSize: 10, Status: "completed", Search: "Lan"}, f.list.got)
	assert.Contains(t, w.Body.String(), `"total":42`)
	assert.Contains(t, w.Body.String(), `"total_pages":5`)
}

func TestOrderHandler_Create(t *testing.T) {
	f := newOrderFixture()
	f.create.result = &dto.OrderDTO{Code: "DH100", Status: "completed"}

	w := doJSON(f.router, http.MethodPost, "/orders", map[string]any{
		"customer_name":  "Nguyễn Văn A",
		"customer_phone": "0901234567",
		"status":         "Hoàn thành",
		"payment_method": "cod",
		"items": []map[string]any{
			{"product_id": 1, "product_name": "Áo thun", "quantity": 2, "unit_price": 150000},
		},
		"shipping_fee": 30000,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, f.create.called)
	assert.Equal(t, "Hoàn thành", f.create.got.Status)
	require.Len(t, f.create.got.Items, 1)
	assert.Equal(t, usecases.CreateOrderItem{ProductID: 1, ProductName: "Áo thun", Quantity: 2, UnitPrice: 150000}, f.create.got.Items[0])
	assert.Equal(t, int64(30000), f.create.got.ShippingFee)
}

func TestOrderHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing items", map[string]any{"customer_name": "A"}},
		{"unknown status", map[string]any{
			"customer_name": "A",
			"status":        "teleported",
			"items":         []map[string]any{{"product_name": "x", "quantity": 1}},
		}},
		{"zero quantity", map[string]any{
			"customer_name": "A",
			"items":         []map[string]any{{"product_name": "x", "quantity": 0}},
		}},
		{"negative discount", map[string]any{
			"customer_name": "A",
			"discount":      -5,
			"items":         []map[string]any{{"product_name": "x", "quantity": 1}},
		}},
		{"full-width phone", map[string]any{
			"customer_name":  "A",
			"customer_phone": "０９０１",
			"items":          []map[string]any{{"product_name": "x", "quantity": 1}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			w := doJSON(f.router, http.MethodPost, "/orders", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.False(t, f.create.called)
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	f := newOrderFixture()
	f.update.result = &dto.OrderDTO{Code: "DH001", Status: "cancelled"}

	w := doJSON(f.router, http.MethodPatch, "/orders/DH001/status", map[string]any{"status": "Đã hủy"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.UpdateOrderStatusCommand{Code: "DH001", Status: "Đã hủy"}, f.update.got)
}

func TestOrderHandler_UpdateStatusConflict(t *testing.T) {
	f := newOrderFixture()
	f.update.err = errors.NewConflictError("cannot move a cancelled order to completed")

	w := doJSON(f.router, http.MethodPatch, "/orders/DH001/status", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderHandler_GetNotFound(t *testing.T) {
	f := newOrderFixture()
	f.get.err = errors.NewNotFoundError("order not found")

	w := doJSON(f.router, http.MethodGet, "/orders/DH404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
