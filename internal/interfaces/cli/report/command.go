package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/application/report/usecases"
	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/email"
	"github.com/lumishop/shopadmin/internal/infrastructure/export"
	"github.com/lumishop/shopadmin/internal/infrastructure/repository"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/bootstrap"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

var (
	opts       bootstrap.Options
	reportType string
	date       string
	outDir     string
	recipients []string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Revenue reports",
	}

	opts.Bind(cmd)
	cmd.PersistentFlags().StringVarP(&reportType, "type", "t", "daily", "Report type (daily, monthly, yearly)")
	cmd.PersistentFlags().StringVarP(&date, "date", "d", "", "Reference date (default: previous business day)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the revenue report as CSV",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")

	mailCmd := &cobra.Command{
		Use:   "mail",
		Short: "Mail the revenue report",
		Long:  `Render the revenue report and mail it, to --to or to the configured recipients.`,
		RunE:  runMail,
	}
	mailCmd.Flags().StringSliceVar(&recipients, "to", nil, "Recipient address, repeatable")

	cmd.AddCommand(exportCmd, mailCmd)
	return cmd
}

// Wiring builds the report use cases on db.
type Wiring struct {
	Export *usecases.ExportRevenueReportUseCase
	Mail   *usecases.MailRevenueReportUseCase
}

func NewWiring(env *bootstrap.Env, db *gorm.DB) *Wiring {
	cfg := env.Config
	log := env.Log

	orderRepo := repository.NewOrderRepository(db, log)
	exportUC := usecases.NewExportRevenueReportUseCase(orderRepo, export.NewCSVRenderer(cfg.Report.Locale), log)
	mailer := email.NewSMTPMailer(email.SMTPConfigFrom(cfg.Email))

	return &Wiring{
		Export: exportUC,
		Mail:   usecases.NewMailRevenueReportUseCase(exportUC, mailer, cfg.Report.MailRecipients, log),
	}
}

func referenceDate() string {
	if date != "" {
		return date
	}
	return biztime.PreviousBizDay(biztime.NowUTC()).Format("2006-01-02")
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	result, err := NewWiring(env, database.Get()).Export.Execute(ctx, usecases.ExportRevenueReportQuery{
		Type: reportType,
		Date: referenceDate(),
	})
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d orders)\n", path, len(result.Table.DataRows()))
	return nil
}

func runMail(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	err = NewWiring(env, database.Get()).Mail.Execute(ctx, usecases.MailRevenueReportCommand{
		Type:       reportType,
		Date:       referenceDate(),
		Recipients: recipients,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Report mailed")
	return nil
}
