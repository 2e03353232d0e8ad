package readstore

import (
	"context"
	"errors"
	"time"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const appointmentViewSelect = `SELECT a.id, a.citizen_id, a.citizen_name, a.procedure_id, p.name,
	a.scheduled_at, a.code, a.status, a.module, a.outcome, a.comment, a.agent_id,
	a.attention_end, a.created_at
	FROM appointments a
	JOIN procedures p ON p.id = a.procedure_id`

type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(dbtx db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: dbtx}
}

func (s *AppointmentReadStore) ViewByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	row := s.db.QueryRow(ctx, appointmentViewSelect+` WHERE a.id = $1`, id)
	v, err := scanAppointmentView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "appointment not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find appointment", err)
	}
	return v, nil
}

func (s *AppointmentReadStore) ListByRange(ctx context.Context, from, to time.Time) ([]*queries.AppointmentView, error) {
	rows, err := s.db.Query(ctx,
		appointmentViewSelect+` WHERE a.scheduled_at >= $1 AND a.scheduled_at < $2 ORDER BY a.scheduled_at`,
		from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list appointments", err)
	}
	defer rows.Close()

	var views []*queries.AppointmentView
	for rows.Next() {
		v, err := scanAppointmentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan appointment", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read appointments", err)
	}
	return views, nil
}

// ScheduledTimes returns the scheduled instants of every appointment for
// the procedure inside [from, to). Advisory read for the availability
// preview; the authoritative occupancy check is the slot lock.
func (s *AppointmentReadStore) ScheduledTimes(ctx context.Context, procedureID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	rows, err := s.db.Query(ctx,
		`SELECT scheduled_at FROM appointments
		 WHERE procedure_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3`,
		procedureID, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list scheduled times", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan scheduled time", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read scheduled times", err)
	}
	return times, nil
}

func (s *AppointmentReadStore) HasActiveAppointment(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE citizen_id = $1 AND procedure_id = $2 AND status <> 'completed'
		)`,
		citizenID, procedureID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check duplicate booking", err)
	}
	return exists, nil
}

// EligibleQueue lists today's active appointments whose scheduled time
// has arrived, soonest first.
func (s *AppointmentReadStore) EligibleQueue(ctx context.Context, dayStart, now time.Time) ([]queries.QueueEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT a.id, a.code, a.citizen_id, a.procedure_id, p.name, a.scheduled_at
		 FROM appointments a
		 JOIN procedures p ON p.id = a.procedure_id
		 WHERE a.status = 'active' AND a.scheduled_at >= $1 AND a.scheduled_at <= $2
		 ORDER BY a.scheduled_at`,
		dayStart, now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list eligible appointments", err)
	}
	defer rows.Close()

	var entries []queries.QueueEntry
	for rows.Next() {
		e := queries.QueueEntry{Kind: queries.QueueKindAppointment}
		if err := rows.Scan(&e.ID, &e.Code, &e.CitizenID, &e.ProcedureID, &e.ProcedureName, &e.At); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan queue appointment", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read queue appointments", err)
	}
	return entries, nil
}

// OverdueActiveIDs pages through active appointments scheduled before
// the cutoff; already-completed rows never match, so repeated reaper
// runs converge to an empty candidate set.
func (s *AppointmentReadStore) OverdueActiveIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id FROM appointments
		 WHERE status = 'active' AND scheduled_at < $1
		 ORDER BY scheduled_at
		 LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list overdue appointments", err)
	}
	return scanIDs(rows)
}

// OpenIDsInRange lists active and called appointments scheduled within
// [from, to) for bulk closure.
func (s *AppointmentReadStore) OpenIDsInRange(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id FROM appointments
		 WHERE status IN ('active', 'called') AND scheduled_at >= $1 AND scheduled_at < $2
		 ORDER BY scheduled_at`,
		from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list open appointments", err)
	}
	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read ids", err)
	}
	return ids, nil
}

func scanAppointmentView(row pgx.Row) (*queries.AppointmentView, error) {
	var v queries.AppointmentView
	err := row.Scan(
		&v.ID, &v.CitizenID, &v.CitizenName, &v.ProcedureID, &v.ProcedureName,
		&v.ScheduledAt, &v.Code, &v.Status, &v.Module, &v.Outcome, &v.Comment, &v.AgentID,
		&v.AttentionEnd, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
