package queries

import (
	"context"

	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/pkg/errs"
)

var ErrQueueEmpty = errs.New("queue is empty")

// QueueQueries builds the unified agent queue: today's eligible
// appointments first (a citizen who booked ahead is never outranked by
// a walk-in), then pending tickets in generation order.
type QueueQueries interface {
	List(ctx context.Context) ([]QueueEntry, error)
	Next(ctx context.Context) (*QueueEntry, error)
}

type queueQueriesImpl struct {
	appointments AppointmentReader
	tickets      TicketReader
	zone         civil.Zone
	clock        clock.Clock
}

func NewQueueQueries(
	appointments AppointmentReader,
	tickets TicketReader,
	zone civil.Zone,
	clk clock.Clock,
) QueueQueries {
	return &queueQueriesImpl{
		appointments: appointments,
		tickets:      tickets,
		zone:         zone,
		clock:        clk,
	}
}

func (q *queueQueriesImpl) List(ctx context.Context) ([]QueueEntry, error) {
	now := q.clock.Now()
	dayStart, _, err := q.zone.DayBounds(q.zone.Date(now))
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve day bounds")
	}

	scheduled, err := q.appointments.EligibleQueue(ctx, dayStart, now)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list eligible appointments")
	}
	walkIns, err := q.tickets.PendingQueue(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list pending tickets")
	}

	merged := make([]QueueEntry, 0, len(scheduled)+len(walkIns))
	merged = append(merged, scheduled...)
	merged = append(merged, walkIns...)
	return merged, nil
}

func (q *queueQueriesImpl) Next(ctx context.Context) (*QueueEntry, error) {
	entries, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrQueueEmpty
	}
	return &entries[0], nil
}
