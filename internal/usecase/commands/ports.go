package commands

import (
	"context"
	"time"

	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

// Read-side ports the write side needs before opening a transaction.
// Reference data and courtesy checks only; nothing here is authoritative
// for exclusivity.

type ProcedureStore interface {
	ByID(ctx context.Context, id uuid.UUID) (*queries.ProcedureView, error)
}

type BookingReads interface {
	HasActiveAppointment(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error)
}

type TicketReads interface {
	HasPendingTicket(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error)
}

// LockReleaser releases lock records outside a booking transaction
// (cancellation path, after the delete has committed).
type LockReleaser interface {
	Release(ctx context.Context, key string) error
}

// ClosureReads feeds the scheduled jobs their candidate sets. Both
// queries exclude completed rows, so re-runs are no-ops on processed
// records.
type ClosureReads interface {
	OverdueActiveIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
	OpenIDsInRange(ctx context.Context, from, to time.Time) ([]uuid.UUID, error)
}

type CounterReset interface {
	ResetKiosk(ctx context.Context) (int, error)
}
