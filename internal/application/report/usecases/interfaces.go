package usecases

import (
	"context"

	"github.com/lumishop/shopadmin/internal/domain/report"
)

// TableRenderer turns a report table into a downloadable document.
type TableRenderer interface {
	Render(table report.Table) ([]byte, error)
	ContentType() string
	Extension() string
}

// Attachment is a file sent along with a report mail.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportMailer delivers a rendered report.
type ReportMailer interface {
	SendReport(ctx context.Context, to []string, subject, htmlBody string, attachment Attachment) error
}
