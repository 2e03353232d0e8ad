package commands

import (
	"context"
	"log/slog"
	"time"

	"consular-queue/internal/infra"
	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/pkg/errs"
	"consular-queue/internal/usecase/shared"

	"github.com/google/uuid"
)

// ClosureCommands hosts the scheduled maintenance operations: marking
// no-shows, end-of-day bulk closure and the kiosk counter reset. Each
// record is closed in its own transaction so one poisoned row cannot
// roll back a whole sweep, and the candidate queries only return open
// rows, so interrupted runs resume cleanly.
type ClosureCommands interface {
	ReapAbsent(ctx context.Context, tolerance time.Duration, batchSize int) (int, error)
	CloseDay(ctx context.Context, date, reason, actorID string) (int, error)
	ResetKioskCounters(ctx context.Context) (int, error)
}

type closureCommandsImpl struct {
	uow      shared.UnitOfWork
	reads    ClosureReads
	counters CounterReset
	zone     civil.Zone
	clock    clock.Clock
	logger   *slog.Logger
}

func NewClosureCommands(
	uow shared.UnitOfWork,
	reads ClosureReads,
	counters CounterReset,
	zone civil.Zone,
	clk clock.Clock,
	logger *slog.Logger,
) ClosureCommands {
	return &closureCommandsImpl{
		uow:      uow,
		reads:    reads,
		counters: counters,
		zone:     zone,
		clock:    clk,
		logger:   logger,
	}
}

// ReapAbsent closes active appointments whose slot passed more than
// tolerance ago as "did not appear". Returns how many were closed.
func (c *closureCommandsImpl) ReapAbsent(ctx context.Context, tolerance time.Duration, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	cutoff := c.clock.Now().Add(-tolerance)
	closed := 0
	for {
		ids, err := c.reads.OverdueActiveIDs(ctx, cutoff, batchSize)
		if err != nil {
			return closed, errs.Wrap(err, "failed to list overdue appointments")
		}
		if len(ids) == 0 {
			return closed, nil
		}
		progress := 0
		for _, id := range ids {
			if err := c.closeOne(ctx, id, "no_show_reaper", "system"); err != nil {
				c.logger.Warn("failed to reap appointment",
					slog.String("appointment_id", id.String()),
					slog.String("error", err.Error()))
				continue
			}
			progress++
		}
		closed += progress
		// A full batch with zero progress would refetch the same rows.
		if len(ids) < batchSize || progress == 0 {
			return closed, nil
		}
	}
}

// CloseDay closes every open appointment scheduled on the given civil
// date, regardless of tolerance. The audit trail carries the supplied
// reason and actor.
func (c *closureCommandsImpl) CloseDay(ctx context.Context, date, reason, actorID string) (int, error) {
	from, to, err := c.zone.DayBounds(date)
	if err != nil {
		return 0, errs.Mark(err, ErrInvalidSchedule)
	}

	ids, err := c.reads.OpenIDsInRange(ctx, from, to)
	if err != nil {
		return 0, errs.Wrap(err, "failed to list open appointments for day")
	}

	closed := 0
	for _, id := range ids {
		if err := c.closeOne(ctx, id, reason, actorID); err != nil {
			c.logger.Warn("failed to close appointment",
				slog.String("appointment_id", id.String()),
				slog.String("date", date),
				slog.String("error", err.Error()))
			continue
		}
		closed++
	}
	return closed, nil
}

// closeOne closes a single appointment in its own transaction. A row
// that was completed between candidate listing and here counts as
// already done, not as a failure.
func (c *closureCommandsImpl) closeOne(ctx context.Context, id uuid.UUID, reason, actorID string) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}
		if !a.Status().IsOpen() {
			return nil
		}

		now := c.clock.Now()
		if err := a.CloseBulk(reason, actorID, now); err != nil {
			return err
		}
		if err := tx.Appointments().UpdateState(ctx, a); err != nil {
			return err
		}
		return tx.Audit().Append(ctx, shared.AuditRecord{
			Source:       AuditSourceAppointment,
			EntityID:     a.ID(),
			Code:         a.Code(),
			Outcome:      *a.Outcome(),
			AgentID:      actorID,
			AttentionEnd: *a.AttentionEnd(),
			RecordedAt:   now,
		})
	})
}

// ResetKioskCounters zeroes every kiosk partition. Web partitions are
// date-scoped and never reset.
func (c *closureCommandsImpl) ResetKioskCounters(ctx context.Context) (int, error) {
	n, err := c.counters.ResetKiosk(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "failed to reset kiosk counters")
	}
	return n, nil
}
