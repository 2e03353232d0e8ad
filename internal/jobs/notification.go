package jobs

import (
	"context"
	"log/slog"
	"time"

	"consular-queue/internal/infra/repository"
	"consular-queue/internal/pkg/clock"

	"github.com/google/uuid"
)

// Sender delivers one claimed notification job. The default
// implementation only logs; a mail transport plugs in here.
type Sender interface {
	Send(ctx context.Context, kind string, payload []byte) error
}

type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, kind string, payload []byte) error {
	s.Logger.Info("notification delivered",
		slog.String("kind", kind),
		slog.String("payload", string(payload)))
	return nil
}

// Outbox claims due notification jobs and records deliveries.
type Outbox interface {
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]repository.NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error
}

// NotificationSweep drains due outbox jobs in batches. A job is marked
// sent only after its delivery succeeded; failed deliveries stay
// queued and are retried on later sweeps until the attempt cap.
type NotificationSweep struct {
	outbox Outbox
	sender Sender
	clock  clock.Clock
	batch  int
	logger *slog.Logger
}

func NewNotificationSweep(
	outbox Outbox,
	sender Sender,
	clk clock.Clock,
	batch int,
	logger *slog.Logger,
) *NotificationSweep {
	if batch <= 0 {
		batch = 50
	}
	return &NotificationSweep{
		outbox: outbox,
		sender: sender,
		clock:  clk,
		batch:  batch,
		logger: logger,
	}
}

func (s *NotificationSweep) Run(ctx context.Context) error {
	for {
		claimed, err := s.outbox.ClaimDue(ctx, s.clock.Now(), s.batch)
		if err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		for _, job := range claimed {
			if err := s.sender.Send(ctx, job.Kind, job.Payload); err != nil {
				s.logger.Warn("notification delivery failed",
					slog.String("job_id", job.ID.String()),
					slog.String("kind", job.Kind),
					slog.Int("attempts", job.Attempts),
					slog.String("error", err.Error()))
				continue
			}
			if err := s.outbox.MarkSent(ctx, job.ID, s.clock.Now()); err != nil {
				s.logger.Warn("failed to mark notification sent",
					slog.String("job_id", job.ID.String()),
					slog.String("error", err.Error()))
			}
		}
		if len(claimed) < s.batch {
			return nil
		}
	}
}
