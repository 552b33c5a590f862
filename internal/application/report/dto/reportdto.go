package dto

import (
	"time"

	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/domain/report"
)

type WindowDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type StatsDTO struct {
	OrderCount        int   `json:"order_count"`
	TotalRevenue      int64 `json:"total_revenue"`
	TotalDiscount     int64 `json:"total_discount"`
	ItemsSold         int   `json:"items_sold"`
	AverageOrderValue int64 `json:"average_order_value"`
}

type ReportOrderDTO struct {
	Code          string    `json:"code"`
	CustomerName  string    `json:"customer_name"`
	CompletedAt   time.Time `json:"completed_at"`
	Quantity      int       `json:"quantity"`
	Subtotal      int64     `json:"subtotal"`
	Discount      int64     `json:"discount"`
	ShippingFee   int64     `json:"shipping_fee"`
	FinalAmount   int64     `json:"final_amount"`
	PaymentMethod string    `json:"payment_method"`
}

type ProductSalesDTO struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

type RevenueReportDTO struct {
	Type     string            `json:"type"`
	Date     string            `json:"date"`
	Window   WindowDTO         `json:"window"`
	Stats    StatsDTO          `json:"stats"`
	Orders   []ReportOrderDTO  `json:"orders"`
	Products []ProductSalesDTO `json:"products"`
}

// ToRevenueReportDTO expects orders already narrowed by report.SelectCompleted.
func ToRevenueReportDTO(w report.Window, orders []*order.Order, stats report.Stats, products []report.ProductSales) *RevenueReportDTO {
	out := &RevenueReportDTO{
		Type:   string(w.Type),
		Date:   w.Label,
		Window: WindowDTO{Start: w.Start, End: w.End},
		Stats: StatsDTO{
			OrderCount:        stats.OrderCount,
			TotalRevenue:      stats.TotalRevenue,
			TotalDiscount:     stats.TotalDiscount,
			ItemsSold:         stats.ItemsSold,
			AverageOrderValue: stats.AverageOrderValue,
		},
		Orders:   make([]ReportOrderDTO, 0, len(orders)),
		Products: make([]ProductSalesDTO, 0, len(products)),
	}

	for _, o := range orders {
		out.Orders = append(out.Orders, ReportOrderDTO{
			Code:          o.Code(),
			CustomerName:  o.CustomerName(),
			CompletedAt:   *o.CompletedAt(),
			Quantity:      o.TotalQuantity(),
			Subtotal:      o.Subtotal(),
			Discount:      o.Discount(),
			ShippingFee:   o.ShippingFee(),
			FinalAmount:   o.FinalAmount(),
			PaymentMethod: string(o.PaymentMethod()),
		})
	}

	for _, p := range products {
		out.Products = append(out.Products, ProductSalesDTO{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Revenue:   p.Revenue,
		})
	}

	return out
}
