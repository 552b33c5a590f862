package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apitokenUsecases "github.com/lumishop/shopadmin/internal/application/apitoken/usecases"
	reportUsecases "github.com/lumishop/shopadmin/internal/application/report/usecases"
	"github.com/lumishop/shopadmin/internal/domain/report"
	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/repository"
	"github.com/lumishop/shopadmin/internal/infrastructure/scheduler"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/bootstrap"
	reportCLI "github.com/lumishop/shopadmin/internal/interfaces/cli/report"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/version"
)

var opts bootstrap.Options

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background jobs",
		Long:  `Run the daily revenue report mail and the hourly cleanup of expired API tokens.`,
		RunE:  run,
	}

	opts.Bind(cmd)
	return cmd
}

// dailyReportSender mails the daily revenue report through the mail use case.
type dailyReportSender struct {
	mail *reportUsecases.MailRevenueReportUseCase
}

func (s dailyReportSender) SendDailyReport(ctx context.Context, day string) error {
	return s.mail.Execute(ctx, reportUsecases.MailRevenueReportCommand{
		Type: string(report.TypeDaily),
		Date: day,
	})
}

func run(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	cfg := env.Config
	log := env.Log
	db := database.Get()

	log.Infow("starting worker", "environment", env.Name, "version", version.Current())

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if len(cfg.Report.MailRecipients) > 0 {
		wiring := reportCLI.NewWiring(env, db)
		if err := manager.RegisterDailyReportJob(dailyReportSender{mail: wiring.Mail}, cfg.Report.DailyMailHour); err != nil {
			return fmt.Errorf("failed to register daily report job: %w", err)
		}
	} else {
		log.Warnw("no report recipients configured, daily report mail disabled")
	}

	cleanup := apitokenUsecases.NewCleanupExpiredTokensUseCase(repository.NewAPITokenRepository(db, log), log)
	if err := manager.RegisterTokenCleanupJob(cleanup); err != nil {
		return fmt.Errorf("failed to register token cleanup job: %w", err)
	}

	manager.Start()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Infow("shutting down worker...")
	return manager.Stop()
}
