package jobs

import (
	"context"
	"log/slog"
	"time"

	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/pkg/config"
	"consular-queue/internal/pkg/metrics"
	"consular-queue/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the recurring maintenance jobs. Cron specs are
// evaluated in the office timezone so "20:00" means the end of the
// office's day, wherever the process runs.
type Scheduler struct {
	cron    *cron.Cron
	closure commands.ClosureCommands
	sweep   *NotificationSweep
	zone    civil.Zone
	clock   clock.Clock
	cfg     config.JobsConfig
	metrics *metrics.QueueMetrics
	logger  *slog.Logger
}

func NewScheduler(
	closure commands.ClosureCommands,
	sweep *NotificationSweep,
	zone civil.Zone,
	clk clock.Clock,
	cfg config.JobsConfig,
	m *metrics.QueueMetrics,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(zone.Location())),
		closure: closure,
		sweep:   sweep,
		zone:    zone,
		clock:   clk,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}
}

func (s *Scheduler) Start() error {
	if s.cfg.DisableScheduledJobs {
		s.logger.Info("scheduled jobs disabled")
		return nil
	}

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"absence_reaper", s.cfg.ReaperSpec, s.runReaper},
		{"close_day", s.cfg.CloseDaySpec, s.runCloseDay},
		{"counter_reset", s.cfg.CounterResetSpec, s.runCounterReset},
		{"notification_sweep", s.cfg.NotificationSpec, s.runNotificationSweep},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return err
		}
		s.logger.Info("scheduled job registered",
			slog.String("job", j.name), slog.String("spec", j.spec))
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runReaper() {
	ctx := context.Background()
	tolerance := time.Duration(s.cfg.ReaperToleranceMin) * time.Minute
	closed, err := s.closure.ReapAbsent(ctx, tolerance, s.cfg.ReaperBatchSize)
	if err != nil {
		s.logger.Error("absence reaper failed", slog.String("error", err.Error()))
		return
	}
	if closed > 0 {
		s.metrics.AddReaped(closed)
		s.logger.Info("absence reaper finished", slog.Int("closed", closed))
	}
}

func (s *Scheduler) runCloseDay() {
	ctx := context.Background()
	date := s.zone.Date(s.clock.Now())
	closed, err := s.closure.CloseDay(ctx, date, s.cfg.CloseDayReason, s.cfg.CloseDayActor)
	if err != nil {
		s.logger.Error("close day job failed",
			slog.String("date", date), slog.String("error", err.Error()))
		return
	}
	s.metrics.AddBulkClosed(closed)
	s.logger.Info("close day job finished",
		slog.String("date", date), slog.Int("closed", closed))
}

func (s *Scheduler) runCounterReset() {
	ctx := context.Background()
	reset, err := s.closure.ResetKioskCounters(ctx)
	if err != nil {
		s.logger.Error("counter reset failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("kiosk counters reset", slog.Int("partitions", reset))
}

func (s *Scheduler) runNotificationSweep() {
	if err := s.sweep.Run(context.Background()); err != nil {
		s.logger.Error("notification sweep failed", slog.String("error", err.Error()))
	}
}
