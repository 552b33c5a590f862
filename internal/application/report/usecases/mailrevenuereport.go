package usecases

import (
	"context"
	"fmt"
	"html"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type MailRevenueReportCommand struct {
	Type       string
	Date       string
	Recipients []string
}

type MailRevenueReportUseCase struct {
	export     *ExportRevenueReportUseCase
	mailer     ReportMailer
	recipients []string
	logger     logger.Interface
}

func NewMailRevenueReportUseCase(
	export *ExportRevenueReportUseCase,
	mailer ReportMailer,
	defaultRecipients []string,
	logger logger.Interface,
) *MailRevenueReportUseCase {
	return &MailRevenueReportUseCase{
		export:     export,
		mailer:     mailer,
		recipients: defaultRecipients,
		logger:     logger,
	}
}

func (uc *MailRevenueReportUseCase) Execute(ctx context.Context, cmd MailRevenueReportCommand) error {
	to := cmd.Recipients
	if len(to) == 0 {
		to = uc.recipients
	}
	if len(to) == 0 {
		return errors.NewValidationError("no report recipients configured")
	}

	result, err := uc.export.Execute(ctx, ExportRevenueReportQuery{Type: cmd.Type, Date: cmd.Date})
	if err != nil {
		return err
	}

	w := result.Table.Window
	total := result.Table.Total()
	subject := fmt.Sprintf("Báo cáo doanh thu %s %s", w.Type, w.Label)
	body := message.NewPrinter(language.Vietnamese).Sprintf(
		"<p>Báo cáo doanh thu <strong>%s</strong> (%s).</p><p>Số đơn hoàn thành: %d<br>Doanh thu: %d VND</p>",
		html.EscapeString(w.Label), html.EscapeString(string(w.Type)),
		len(result.Table.DataRows()), total.FinalAmount,
	)

	err = uc.mailer.SendReport(ctx, to, subject, body, Attachment{
		Filename:    result.Filename,
		ContentType: result.ContentType,
		Data:        result.Data,
	})
	if err != nil {
		uc.logger.Errorw("failed to mail revenue report", "error", err, "type", w.Type, "date", w.Label)
		return fmt.Errorf("failed to mail report: %w", err)
	}

	uc.logger.Infow("revenue report mailed",
		"type", w.Type,
		"date", w.Label,
		"recipients", len(to),
		"orders", len(result.Table.DataRows()),
	)
	return nil
}
