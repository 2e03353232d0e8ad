package components

import (
	"context"
	"log/slog"

	"consular-queue/internal/infra/repository"
	"consular-queue/internal/jobs"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/pkg/config"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		newSender,
		newNotificationSweep,
		jobs.NewScheduler,
	),
	fx.Invoke(startScheduler),
)

func newSender(logger *slog.Logger) jobs.Sender {
	return &jobs.LogSender{Logger: logger}
}

func newNotificationSweep(
	outbox *repository.NotificationRepository,
	sender jobs.Sender,
	clk clock.Clock,
	cfg config.JobsConfig,
	logger *slog.Logger,
) *jobs.NotificationSweep {
	return jobs.NewNotificationSweep(outbox, sender, clk, cfg.NotificationBatch, logger)
}

func startScheduler(lc fx.Lifecycle, scheduler *jobs.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(_ context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
