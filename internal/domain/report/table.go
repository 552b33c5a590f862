package report

import (
	"sort"
	"strings"
	"time"

	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
)

type RowKind int

const (
	RowData RowKind = iota
	// RowTotal marks the synthetic aggregate row appended after the data rows.
	RowTotal
)

// Row is one line of the tabular revenue report.
type Row struct {
	Kind          RowKind
	OrderCode     string
	Customer      string
	Phone         string
	CompletedAt   time.Time
	Items         string
	Quantity      int
	Subtotal      int64
	Discount      int64
	Shipping      int64
	FinalAmount   int64
	PaymentMethod string
}

// Format hints for spreadsheet-style renderers.
const (
	FormatText     = "@"
	FormatNumber   = "#,##0"
	FormatDateTime = "dd/mm/yyyy hh:mm"
)

// DateTimeLayout renders CompletedAt in business timezone.
const DateTimeLayout = "02/01/2006 15:04"

// TotalLabel is written in the Order Code column of the total row.
const TotalLabel = "TỔNG CỘNG"

type Column struct {
	Key    string
	Title  string
	Format string
	Width  int
}

// Columns is the fixed export layout.
var Columns = []Column{
	{Key: "order_code", Title: "Order Code", Format: FormatText, Width: 18},
	{Key: "customer", Title: "Customer", Format: FormatText, Width: 24},
	{Key: "phone", Title: "Phone", Format: FormatText, Width: 14},
	{Key: "completed_at", Title: "Completed At", Format: FormatDateTime, Width: 18},
	{Key: "items", Title: "Items", Format: FormatText, Width: 40},
	{Key: "quantity", Title: "Quantity", Format: FormatNumber, Width: 10},
	{Key: "subtotal", Title: "Subtotal", Format: FormatNumber, Width: 14},
	{Key: "discount", Title: "Discount", Format: FormatNumber, Width: 14},
	{Key: "shipping", Title: "Shipping", Format: FormatNumber, Width: 14},
	{Key: "final_amount", Title: "Final Amount", Format: FormatNumber, Width: 16},
	{Key: "payment_method", Title: "Payment Method", Format: FormatText, Width: 16},
}

type Style struct {
	Bold      bool
	Fill      string
	TopBorder bool
}

var (
	HeaderStyle = Style{Bold: true, Fill: "#E2EFDA"}
	TotalStyle  = Style{Bold: true, TopBorder: true}
)

// Table is a revenue report in tabular form. Rows ends with exactly one RowTotal row.
type Table struct {
	Window      Window
	Columns     []Column
	Rows        []Row
	HeaderStyle Style
	TotalStyle  Style
}

// DataRows returns the rows without the total row.
func (t Table) DataRows() []Row {
	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Kind == RowData {
			out = append(out, r)
		}
	}
	return out
}

// Total returns the aggregate row.
func (t Table) Total() Row {
	for i := len(t.Rows) - 1; i >= 0; i-- {
		if t.Rows[i].Kind == RowTotal {
			return t.Rows[i]
		}
	}
	return Total(t.Rows)
}

// BuildTable maps completed orders inside the window to rows, newest first, and appends
// the total row. Orders outside the window or not completed are skipped.
func BuildTable(w Window, orders []*order.Order) Table {
	selected := SelectCompleted(w, orders)

	rows := make([]Row, 0, len(selected)+1)
	for _, o := range selected {
		rows = append(rows, rowFromOrder(o))
	}

	return Table{
		Window:      w,
		Columns:     Columns,
		Rows:        WithTotal(rows),
		HeaderStyle: HeaderStyle,
		TotalStyle:  TotalStyle,
	}
}

// SelectCompleted keeps completed orders whose completion time is inside w, sorted by
// completion time descending with the order code as tie breaker.
func SelectCompleted(w Window, orders []*order.Order) []*order.Order {
	out := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o == nil || o.Status() != order.StatusCompleted || o.CompletedAt() == nil {
			continue
		}
		if !w.Contains(*o.CompletedAt()) {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := *out[i].CompletedAt(), *out[j].CompletedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Code() < out[j].Code()
	})
	return out
}

func rowFromOrder(o *order.Order) Row {
	names := make([]string, 0, len(o.Items()))
	for _, item := range o.Items() {
		names = append(names, item.ProductName+" x"+itoa(item.Quantity))
	}

	return Row{
		Kind:          RowData,
		OrderCode:     o.Code(),
		Customer:      o.CustomerName(),
		Phone:         o.CustomerPhone(),
		CompletedAt:   biztime.ToBizTimezone(*o.CompletedAt()),
		Items:         strings.Join(names, ", "),
		Quantity:      o.TotalQuantity(),
		Subtotal:      o.Subtotal(),
		Discount:      o.Discount(),
		Shipping:      o.ShippingFee(),
		FinalAmount:   o.FinalAmount(),
		PaymentMethod: o.PaymentMethod().Label(),
	}
}

// Total sums the data rows of rows. Existing total rows are ignored, so feeding a
// finished table back in never counts a previous total.
func Total(rows []Row) Row {
	total := Row{Kind: RowTotal, OrderCode: TotalLabel}
	for _, r := range rows {
		if r.Kind != RowData {
			continue
		}
		total.Quantity += r.Quantity
		total.Subtotal += r.Subtotal
		total.Discount += r.Discount
		total.Shipping += r.Shipping
		total.FinalAmount += r.FinalAmount
	}
	return total
}

// WithTotal drops any total rows from rows and appends one freshly computed total.
func WithTotal(rows []Row) []Row {
	out := make([]Row, 0, len(rows)+1)
	for _, r := range rows {
		if r.Kind == RowData {
			out = append(out, r)
		}
	}
	return append(out, Total(out))
}
