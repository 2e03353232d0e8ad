package shared

import (
	"context"
	"time"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/domain/ticket"

	"github.com/google/uuid"
)

// UnitOfWork runs a function inside one datastore transaction. Every
// write path touching an appointment/ticket together with its locks or
// counters goes through Within; nothing mutates them outside it.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization conflicts. The whole fn is re-run on retry so lock
	// checks are always re-validated against fresh state.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Appointments() AppointmentRepository
	Tickets() TicketRepository
	Locks() LockRepository
	Sequences() SequenceRepository
	Audit() AuditRepository
	Notifications() NotificationRepository
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *appointment.Appointment) error
	// Get loads the row with a row-level lock so concurrent transitions
	// on the same appointment serialize.
	Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	UpdateState(ctx context.Context, a *appointment.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TicketRepository interface {
	Create(ctx context.Context, t *ticket.Ticket) error
	Get(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error)
	UpdateState(ctx context.Context, t *ticket.Ticket) error
}

// LockRepository manages the datastore lock records whose existence is
// the authoritative occupancy check. Acquire fails the transaction on a
// present key; callers map the duplicate kind to their AlreadyExists.
type LockRepository interface {
	Acquire(ctx context.Context, key, kind string, ownerID uuid.UUID, now time.Time) error
	Release(ctx context.Context, key string) error
}

type SequenceRepository interface {
	// Next atomically increments and returns the counter for the
	// partition, treating an absent row as zero.
	Next(ctx context.Context, partitionKey string) (int, error)
}

// AuditRecord is append-only, keyed by (source, entity, attention end)
// so a reopen-then-reclose produces a second entry, never an overwrite.
type AuditRecord struct {
	Source       string
	EntityID     uuid.UUID
	Code         string
	Outcome      appointment.Outcome
	AgentID      string
	AttentionEnd time.Time
	RecordedAt   time.Time
}

type AuditRepository interface {
	Append(ctx context.Context, rec AuditRecord) error
}

type NotificationRepository interface {
	Enqueue(ctx context.Context, kind string, payload []byte, runAt time.Time) error
}
