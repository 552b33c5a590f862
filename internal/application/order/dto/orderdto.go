package dto

import (
	"time"

	"github.com/lumishop/shopadmin/internal/domain/order"
)

type ItemDTO struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

type OrderDTO struct {
	Code          string     `json:"code"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	PaymentMethod string     `json:"payment_method"`
	Items         []ItemDTO  `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Discount      int64      `json:"discount"`
	ShippingFee   int64      `json:"shipping_fee"`
	FinalAmount   int64      `json:"final_amount"`
	Note          string     `json:"note,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToOrderDTO(o *order.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, ItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}

	return &OrderDTO{
		Code:          o.Code(),
		CustomerName:  o.CustomerName(),
		CustomerPhone: o.CustomerPhone(),
		Status:        o.Status().String(),
		StatusLabel:   o.Status().Label(),
		PaymentMethod: string(o.PaymentMethod()),
		Items:         items,
		Subtotal:      o.Subtotal(),
		Discount:      o.Discount(),
		ShippingFee:   o.ShippingFee(),
		FinalAmount:   o.FinalAmount(),
		Note:          o.Note(),
		CompletedAt:   o.CompletedAt(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func ToOrderDTOList(orders []*order.Order) []*OrderDTO {
	result := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		result = append(result, ToOrderDTO(o))
	}
	return result
}
