package repository

import (
	"context"
	"errors"
	"time"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const appointmentColumns = `id, citizen_id, procedure_id, scheduled_at, code, status,
	citizen_name, citizen_email, citizen_phone,
	resource_lock_key, subject_lock_key,
	module, outcome, comment, agent_id,
	attention_end, reopened_at, closed_reason, closed_by,
	created_at, updated_at`

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(dbtx db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: dbtx}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	profile := a.Profile()
	_, err := r.db.Exec(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		a.ID(), a.CitizenID(), a.ProcedureID(), a.ScheduledAt(), a.Code(), a.Status(),
		profile.Name, profile.Email, profile.Phone,
		a.ResourceLockKey(), a.SubjectLockKey(),
		a.Module(), a.Outcome(), a.Comment(), a.AgentID(),
		a.AttentionEnd(), a.ReopenedAt(), a.ClosedReason(), a.ClosedBy(),
		a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "open appointment already exists for citizen and procedure", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert appointment", err)
	}
	return nil
}

// Get loads the appointment with FOR UPDATE so concurrent lifecycle
// transitions on the same record serialize inside the transaction.
func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`,
		id,
	)
	return scanAppointment(row)
}

func (r *AppointmentRepository) UpdateState(ctx context.Context, a *appointment.Appointment) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET
			status = $2, module = $3, outcome = $4, comment = $5, agent_id = $6,
			attention_end = $7, reopened_at = $8, closed_reason = $9, closed_by = $10,
			updated_at = $11
		 WHERE id = $1`,
		a.ID(), a.Status(), a.Module(), a.Outcome(), a.Comment(), a.AgentID(),
		a.AttentionEnd(), a.ReopenedAt(), a.ClosedReason(), a.ClosedBy(),
		a.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			// Reopening collides with a newer open appointment for the
			// same citizen and procedure.
			return infra.WrapRepoErr(infra.KindDuplicateKey, "open appointment already exists for citizen and procedure", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "appointment not found", nil)
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to delete appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "appointment not found", nil)
	}
	return nil
}

func scanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var (
		id              uuid.UUID
		citizenID       string
		procedureID     uuid.UUID
		scheduledAt     time.Time
		code            string
		status          string
		name            string
		email           string
		phone           string
		resourceLockKey string
		subjectLockKey  string
		module          *int
		outcome         *string
		comment         *string
		agentID         *string
		attentionEnd    *time.Time
		reopenedAt      *time.Time
		closedReason    *string
		closedBy        *string
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(
		&id, &citizenID, &procedureID, &scheduledAt, &code, &status,
		&name, &email, &phone,
		&resourceLockKey, &subjectLockKey,
		&module, &outcome, &comment, &agentID,
		&attentionEnd, &reopenedAt, &closedReason, &closedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "appointment not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan appointment", err)
	}

	var outcomeVal *appointment.Outcome
	if outcome != nil {
		o := appointment.Outcome(*outcome)
		outcomeVal = &o
	}

	return appointment.Reconstruct(
		id, citizenID, procedureID, scheduledAt, code, appointment.Status(status),
		appointment.Profile{Name: name, Email: email, Phone: phone},
		resourceLockKey, subjectLockKey,
		module, outcomeVal, comment, agentID,
		attentionEnd, reopenedAt, closedReason, closedBy,
		createdAt, updatedAt,
	), nil
}
