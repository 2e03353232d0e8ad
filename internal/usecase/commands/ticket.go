package commands

import (
	"context"
	"strings"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/domain/ticket"
	"consular-queue/internal/infra"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/pkg/errs"
	"consular-queue/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTicketNotFound   = errs.New("ticket not found")
	ErrDuplicateTicket  = errs.New("citizen already has a pending ticket for this procedure")
	ErrDuplicateBooking = errs.New("citizen already has an active appointment for this procedure")
	ErrEmptyCitizenID   = errs.New("citizen id is required")
)

type TicketResult struct {
	TicketID uuid.UUID
	Code     string
}

type TicketCommands interface {
	Create(ctx context.Context, citizenID string, procedureID uuid.UUID) (*TicketResult, error)
	Call(ctx context.Context, id uuid.UUID, moduleDesk int) error
	Finish(ctx context.Context, params FinishParams) error
}

type ticketCommandsImpl struct {
	uow          shared.UnitOfWork
	procedures   ProcedureStore
	bookingReads BookingReads
	ticketReads  TicketReads
	clock        clock.Clock
}

func NewTicketCommands(
	uow shared.UnitOfWork,
	procedures ProcedureStore,
	bookingReads BookingReads,
	ticketReads TicketReads,
	clk clock.Clock,
) TicketCommands {
	return &ticketCommandsImpl{
		uow:          uow,
		procedures:   procedures,
		bookingReads: bookingReads,
		ticketReads:  ticketReads,
		clock:        clk,
	}
}

// Create allocates a kiosk ticket: duplicate check plus sequence code,
// no slot lock. Kiosk tickets are session-ordered, the counter alone
// provides ordering; the counter is zeroed by the scheduled reset job,
// not by partition rotation.
func (c *ticketCommandsImpl) Create(ctx context.Context, citizenID string, procedureID uuid.UUID) (*TicketResult, error) {
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" {
		return nil, ErrEmptyCitizenID
	}

	proc, err := c.procedures.ByID(ctx, procedureID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProcedureNotFound
		}
		return nil, errs.Wrap(err, "failed to load procedure")
	}
	if proc.Prefix == "" {
		return nil, ErrProcedureNoPrefix
	}

	if busy, err := c.bookingReads.HasActiveAppointment(ctx, citizenID, procedureID); err != nil {
		return nil, errs.Wrap(err, "failed to check existing appointment")
	} else if busy {
		return nil, ErrDuplicateBooking
	}
	if pending, err := c.ticketReads.HasPendingTicket(ctx, citizenID, procedureID); err != nil {
		return nil, errs.Wrap(err, "failed to check pending ticket")
	} else if pending {
		return nil, ErrDuplicateTicket
	}

	var result *TicketResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		seq, err := tx.Sequences().Next(ctx, appointment.KioskPartition(procedureID))
		if err != nil {
			return err
		}
		code := appointment.KioskCode(proc.Prefix, seq)

		entity, err := ticket.NewTicket(citizenID, procedureID, code, c.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Tickets().Create(ctx, entity); err != nil {
			return err
		}
		result = &TicketResult{TicketID: entity.ID(), Code: code}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *ticketCommandsImpl) Call(ctx context.Context, id uuid.UUID, moduleDesk int) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Tickets().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		if err := t.Call(moduleDesk, c.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return tx.Tickets().UpdateState(ctx, t)
	})
}

func (c *ticketCommandsImpl) Finish(ctx context.Context, params FinishParams) error {
	outcome, err := appointment.ParseOutcome(params.Outcome)
	if err != nil {
		return errs.Mark(err, ErrInvalidOutcome)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Tickets().Get(ctx, params.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		now := c.clock.Now()
		if err := t.Finish(outcome, params.Comment, params.AgentID, now); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Tickets().UpdateState(ctx, t); err != nil {
			return err
		}
		return tx.Audit().Append(ctx, shared.AuditRecord{
			Source:       AuditSourceTicket,
			EntityID:     t.ID(),
			Code:         t.Code(),
			Outcome:      outcome,
			AgentID:      params.AgentID,
			AttentionEnd: *t.AttentionEnd(),
			RecordedAt:   now,
		})
	})
}
