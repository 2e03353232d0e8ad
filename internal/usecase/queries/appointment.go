package queries

import (
	"context"

	"consular-queue/internal/infra"
	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrTicketNotFound      = errs.New("ticket not found")
)

type AppointmentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	// CheckDuplicate reports whether the citizen already has an open
	// appointment for the procedure. Courtesy pre-check for the booking
	// form; the subject lock enforces the real constraint.
	CheckDuplicate(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error)
	ListDay(ctx context.Context, date string) ([]*AppointmentView, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*TicketView, error)
	ListProcedures(ctx context.Context) ([]*ProcedureView, error)
}

type appointmentQueriesImpl struct {
	appointments AppointmentReader
	tickets      TicketReader
	procedures   ProcedureReader
	zone         civil.Zone
}

func NewAppointmentQueries(
	appointments AppointmentReader,
	tickets TicketReader,
	procedures ProcedureReader,
	zone civil.Zone,
) AppointmentQueries {
	return &appointmentQueriesImpl{
		appointments: appointments,
		tickets:      tickets,
		procedures:   procedures,
		zone:         zone,
	}
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	v, err := q.appointments.ViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, errs.Wrap(err, "failed to load appointment")
	}
	return v, nil
}

func (q *appointmentQueriesImpl) CheckDuplicate(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error) {
	return q.appointments.HasActiveAppointment(ctx, citizenID, procedureID)
}

func (q *appointmentQueriesImpl) ListDay(ctx context.Context, date string) ([]*AppointmentView, error) {
	from, to, err := q.zone.DayBounds(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return q.appointments.ListByRange(ctx, from, to)
}

func (q *appointmentQueriesImpl) GetTicket(ctx context.Context, id uuid.UUID) (*TicketView, error) {
	v, err := q.tickets.ViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, errs.Wrap(err, "failed to load ticket")
	}
	return v, nil
}

func (q *appointmentQueriesImpl) ListProcedures(ctx context.Context) ([]*ProcedureView, error) {
	return q.procedures.List(ctx)
}
