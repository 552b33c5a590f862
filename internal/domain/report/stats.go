package report

import (
	"sort"
	"strconv"

	"github.com/lumishop/shopadmin/internal/domain/order"
)

type Stats struct {
	OrderCount        int
	TotalRevenue      int64
	TotalDiscount     int64
	ItemsSold         int
	AverageOrderValue int64
}

// ProductSales is the per-product slice of a report. Revenue is the sum of line totals
// before order-level discounts.
type ProductSales struct {
	ProductID uint
	Name      string
	Quantity  int
	Revenue   int64
}

// Summarize aggregates already-selected orders. Pass the output of SelectCompleted.
func Summarize(orders []*order.Order) (Stats, []ProductSales) {
	var stats Stats
	byProduct := make(map[string]*ProductSales)

	for _, o := range orders {
		stats.OrderCount++
		stats.TotalRevenue += o.FinalAmount()
		stats.TotalDiscount += o.Discount()

		for _, item := range o.Items() {
			stats.ItemsSold += item.Quantity

			key := productKey(item)
			ps, ok := byProduct[key]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Name: item.ProductName}
				byProduct[key] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += item.LineTotal()
		}
	}

	if stats.OrderCount > 0 {
		count := int64(stats.OrderCount)
		stats.AverageOrderValue = (stats.TotalRevenue + count/2) / count
	}

	products := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		products = append(products, *ps)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Revenue != products[j].Revenue {
			return products[i].Revenue > products[j].Revenue
		}
		return products[i].Name < products[j].Name
	})

	return stats, products
}

// productKey groups lines by product id, falling back to the name for ad-hoc lines.
func productKey(item order.Item) string {
	if item.ProductID != 0 {
		return "id:" + strconv.FormatUint(uint64(item.ProductID), 10)
	}
	return "name:" + item.ProductName
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
