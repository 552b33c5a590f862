// Package scheduler runs the worker's periodic jobs on gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// BatchJob processes one batch and returns the number of affected items.
type BatchJob interface {
	Execute(ctx context.Context) (int64, error)
}

// DailyReportSender mails the revenue report of one business day (YYYY-MM-DD).
type DailyReportSender interface {
	SendDailyReport(ctx context.Context, day string) error
}

// SchedulerManager owns a single gocron scheduler running in business timezone.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface
	now       func() time.Time

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a SchedulerManager. Cron expressions are evaluated in the
// business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
		now:       biztime.NowUTC,
	}, nil
}

// ========================================
// Revenue Report Jobs (daily, cron-based)
// ========================================

// RegisterDailyReportJob mails the previous business day's revenue report every day at
// hour:00 business time.
func (m *SchedulerManager) RegisterDailyReportJob(sender DailyReportSender, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid daily report hour %d", hour)
	}

	_, err := m.scheduler.NewJob(
		gocron.CronJob(fmt.Sprintf("0 %d * * *", hour), false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.sendDailyReport(ctx, sender)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("report", "daily-mail"),
		gocron.WithName("report-daily-mail"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered daily report job", "hour", hour)
	return nil
}

func (m *SchedulerManager) sendDailyReport(ctx context.Context, sender DailyReportSender) {
	day := biztime.PreviousBizDay(m.now()).Format("2006-01-02")
	startTime := biztime.NowUTC()

	if err := sender.SendDailyReport(ctx, day); err != nil {
		m.logger.Errorw("failed to send daily revenue report",
			"error", err,
			"day", day,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("daily revenue report sent",
		"day", day,
		"duration", time.Since(startTime),
	)
}

// ========================================
// Token Cleanup Jobs (1h interval, start immediately)
// ========================================

// RegisterTokenCleanupJob deletes long-expired API tokens every hour.
func (m *SchedulerManager) RegisterTokenCleanupJob(cleanupJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.cleanupTokens(ctx, cleanupJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("apitoken", "cleanup"),
		gocron.WithName("apitoken-cleanup"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered token cleanup job", "interval", "1h")
	return nil
}

func (m *SchedulerManager) cleanupTokens(ctx context.Context, cleanupJob BatchJob) {
	startTime := biztime.NowUTC()

	deleted, err := cleanupJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to clean up expired tokens",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if deleted > 0 {
		m.logger.Infow("expired tokens cleaned up",
			"count", deleted,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no expired tokens to clean up")
	}
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
