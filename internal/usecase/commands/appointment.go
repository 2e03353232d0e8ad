package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/infra"
	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/pkg/errs"
	"consular-queue/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrProcedureNotFound   = errs.New("procedure not found")
	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrProcedureNoPrefix   = errs.New("procedure has no code prefix configured")
	ErrSlotTaken           = errs.New("slot already taken by another booking")
	ErrCitizenBusy         = errs.New("citizen already has a booking at that time")
	ErrNotCancelable       = errs.New("appointment can no longer be canceled")
	ErrInvalidTransition   = errs.New("operation not allowed in current state")
	ErrInvalidSchedule     = errs.New("invalid date or time of day")
	ErrInvalidOutcome      = errs.New("missing or unknown outcome classification")
)

const (
	AuditSourceAppointment = "appointment"
	AuditSourceTicket      = "ticket"
)

type BookAppointmentParams struct {
	CitizenID   string
	ProcedureID uuid.UUID
	Date        string // YYYY-MM-DD civil date
	TimeOfDay   string // HH:MM, strict 24h
	Profile     appointment.Profile
}

type BookingResult struct {
	AppointmentID uuid.UUID
	Code          string
}

type FinishParams struct {
	ID      uuid.UUID
	Outcome string
	Comment string
	AgentID string
}

type AppointmentCommands interface {
	Book(ctx context.Context, params BookAppointmentParams) (*BookingResult, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Call(ctx context.Context, id uuid.UUID, module int) error
	Finish(ctx context.Context, params FinishParams) error
	Reopen(ctx context.Context, id uuid.UUID) (previousStatus string, err error)
}

type appointmentCommandsImpl struct {
	uow        shared.UnitOfWork
	procedures ProcedureStore
	locks      LockReleaser
	zone       civil.Zone
	clock      clock.Clock
}

func NewAppointmentCommands(
	uow shared.UnitOfWork,
	procedures ProcedureStore,
	locks LockReleaser,
	zone civil.Zone,
	clk clock.Clock,
) AppointmentCommands {
	return &appointmentCommandsImpl{
		uow:        uow,
		procedures: procedures,
		locks:      locks,
		zone:       zone,
		clock:      clk,
	}
}

// Book runs the whole slot-claim protocol in one transaction: resource
// lock, subject lock, sequence code, appointment row. Any lock conflict
// aborts the transaction so no counter advances without its entity.
func (c *appointmentCommandsImpl) Book(ctx context.Context, params BookAppointmentParams) (*BookingResult, error) {
	if strings.TrimSpace(params.CitizenID) == "" {
		return nil, errs.Mark(errs.New("citizen id is required"), ErrInvalidSchedule)
	}
	if !civil.ValidDate(params.Date) || !civil.ValidTimeOfDay(params.TimeOfDay) {
		return nil, ErrInvalidSchedule
	}

	proc, err := c.procedures.ByID(ctx, params.ProcedureID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProcedureNotFound
		}
		return nil, errs.Wrap(err, "failed to load procedure")
	}
	if proc.Prefix == "" {
		return nil, ErrProcedureNoPrefix
	}

	scheduledAt, err := c.zone.Combine(params.Date, params.TimeOfDay)
	if err != nil {
		return nil, ErrInvalidSchedule
	}

	resourceKey := appointment.ResourceLockKey(params.ProcedureID, params.Date, params.TimeOfDay)
	subjectKey := appointment.SubjectLockKey(params.CitizenID, params.Date, params.TimeOfDay)

	var result *BookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		entity, err := appointment.NewAppointment(
			params.CitizenID, params.ProcedureID, scheduledAt, "",
			params.Profile, resourceKey, subjectKey, now,
		)
		if err != nil {
			return errs.Mark(err, ErrInvalidSchedule)
		}

		if err := tx.Locks().Acquire(ctx, resourceKey, appointment.LockKindResource, entity.ID(), now); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrSlotTaken
			}
			return err
		}
		if err := tx.Locks().Acquire(ctx, subjectKey, appointment.LockKindSubject, entity.ID(), now); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrCitizenBusy
			}
			return err
		}

		seq, err := tx.Sequences().Next(ctx, appointment.WebPartition(params.ProcedureID, params.Date))
		if err != nil {
			return err
		}
		code := appointment.WebCode(proc.Prefix, seq)
		if err := entity.AssignCode(code); err != nil {
			return err
		}

		// The partial unique index on open (citizen_id, procedure_id)
		// rows is the authoritative one-open-booking-per-procedure
		// guard; the /duplicate pre-check is only a courtesy.
		if err := tx.Appointments().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateBooking
			}
			return err
		}

		if err := c.enqueueBookedNotification(ctx, tx, entity, proc.Name, params.Date, params.TimeOfDay); err != nil {
			return err
		}

		result = &BookingResult{AppointmentID: entity.ID(), Code: code}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel hard-deletes an active appointment, then releases its locks.
// Lock release is best-effort: the delete is the operation's contract,
// an orphaned lock only blocks one future slot and is logged for
// monitoring.
func (c *appointmentCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) error {
	var resourceKey, subjectKey string
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if !a.Cancelable() {
			return ErrNotCancelable
		}
		resourceKey = a.ResourceLockKey()
		subjectKey = a.SubjectLockKey()
		return tx.Appointments().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, key := range []string{resourceKey, subjectKey} {
		if key == "" {
			continue
		}
		if releaseErr := c.locks.Release(ctx, key); releaseErr != nil {
			slog.Warn("failed to release lock after cancellation",
				"appointment_id", id.String(),
				"lock_key", key,
				"error", releaseErr.Error())
		}
	}
	return nil
}

func (c *appointmentCommandsImpl) Call(ctx context.Context, id uuid.UUID, module int) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		if err := a.Call(module, c.clock.Now()); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return tx.Appointments().UpdateState(ctx, a)
	})
}

func (c *appointmentCommandsImpl) Finish(ctx context.Context, params FinishParams) error {
	outcome, err := appointment.ParseOutcome(params.Outcome)
	if err != nil {
		return errs.Mark(err, ErrInvalidOutcome)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().Get(ctx, params.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}

		now := c.clock.Now()
		if err := a.Finish(outcome, params.Comment, params.AgentID, now); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Appointments().UpdateState(ctx, a); err != nil {
			return err
		}
		return tx.Audit().Append(ctx, shared.AuditRecord{
			Source:       AuditSourceAppointment,
			EntityID:     a.ID(),
			Code:         a.Code(),
			Outcome:      outcome,
			AgentID:      params.AgentID,
			AttentionEnd: *a.AttentionEnd(),
			RecordedAt:   now,
		})
	})
}

func (c *appointmentCommandsImpl) Reopen(ctx context.Context, id uuid.UUID) (string, error) {
	var previous appointment.Status
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().Get(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrAppointmentNotFound
			}
			return err
		}
		prev, err := a.Reopen(c.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		previous = prev
		if err := tx.Appointments().UpdateState(ctx, a); err != nil {
			// The citizen booked again after this one completed; the
			// open-booking index rejects a second open row.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateBooking
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(previous), nil
}

func (c *appointmentCommandsImpl) enqueueBookedNotification(
	ctx context.Context,
	tx shared.Tx,
	a *appointment.Appointment,
	procedureName, date, timeOfDay string,
) error {
	if a.Profile().Email == "" {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"appointment_id": a.ID(),
		"code":           a.Code(),
		"citizen_email":  a.Profile().Email,
		"citizen_name":   a.Profile().Name,
		"procedure":      procedureName,
		"date":           date,
		"time":           timeOfDay,
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification payload")
	}
	return tx.Notifications().Enqueue(ctx, "appointment_booked", payload, c.clock.Now())
}
