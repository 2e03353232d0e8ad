package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ProcedureReader interface {
	ByID(ctx context.Context, id uuid.UUID) (*ProcedureView, error)
	List(ctx context.Context) ([]*ProcedureView, error)
}

type HolidayReader interface {
	Holiday(ctx context.Context, date string) (name string, ok bool, err error)
}

type AppointmentReader interface {
	ViewByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]*AppointmentView, error)
	ScheduledTimes(ctx context.Context, procedureID uuid.UUID, from, to time.Time) ([]time.Time, error)
	HasActiveAppointment(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error)
	EligibleQueue(ctx context.Context, dayStart, now time.Time) ([]QueueEntry, error)
}

type TicketReader interface {
	ViewByID(ctx context.Context, id uuid.UUID) (*TicketView, error)
	PendingQueue(ctx context.Context) ([]QueueEntry, error)
}
