// Package export renders report tables into downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lumishop/shopadmin/internal/domain/report"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/constants"
)

// utf8BOM makes spreadsheet apps detect UTF-8 for Vietnamese text.
const utf8BOM = "\ufeff"

// CSVRenderer writes a header row, the data rows and the total row. Numeric columns are
// grouped the way the locale expects, e.g. 1.250.000 for vi.
type CSVRenderer struct {
	printer *message.Printer
}

func NewCSVRenderer(locale string) *CSVRenderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Vietnamese
	}
	return &CSVRenderer{printer: message.NewPrinter(tag)}
}

func (r *CSVRenderer) ContentType() string { return constants.ContentTypeCSV }

func (r *CSVRenderer) Extension() string { return "csv" }

func (r *CSVRenderer) Render(table report.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Title
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range report.WithTotal(table.Rows) {
		record := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			record[i] = r.cell(row, col)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *CSVRenderer) cell(row report.Row, col report.Column) string {
	switch col.Key {
	case "order_code":
		return textCell(row.OrderCode)
	case "customer":
		return textCell(row.Customer)
	case "phone":
		return textCell(row.Phone)
	case "completed_at":
		if row.Kind == report.RowTotal || row.CompletedAt.IsZero() {
			return ""
		}
		return biztime.FormatInBizTimezone(row.CompletedAt, report.DateTimeLayout)
	case "items":
		return textCell(row.Items)
	case "quantity":
		return r.number(int64(row.Quantity), col.Format)
	case "subtotal":
		return r.number(row.Subtotal, col.Format)
	case "discount":
		return r.number(row.Discount, col.Format)
	case "shipping":
		return r.number(row.Shipping, col.Format)
	case "final_amount":
		return r.number(row.FinalAmount, col.Format)
	case "payment_method":
		return textCell(row.PaymentMethod)
	}
	return ""
}

// textCell stops spreadsheet apps from evaluating user text such as "=HYPERLINK(...)" as a
// formula by prefixing a quote.
func textCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func (r *CSVRenderer) number(v int64, format string) string {
	if format == report.FormatNumber {
		return r.printer.Sprintf("%d", v)
	}
	return strconv.FormatInt(v, 10)
}
