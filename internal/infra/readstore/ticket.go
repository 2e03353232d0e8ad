package readstore

import (
	"context"
	"errors"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TicketReadStore struct {
	db db.DBTX
}

func NewTicketReadStore(dbtx db.DBTX) *TicketReadStore {
	return &TicketReadStore{db: dbtx}
}

func (s *TicketReadStore) ViewByID(ctx context.Context, id uuid.UUID) (*queries.TicketView, error) {
	var v queries.TicketView
	err := s.db.QueryRow(ctx,
		`SELECT t.id, t.citizen_id, t.procedure_id, p.name, t.code, t.status,
			t.module_desk, t.outcome, t.created_at
		 FROM tickets t
		 JOIN procedures p ON p.id = t.procedure_id
		 WHERE t.id = $1`,
		id,
	).Scan(&v.ID, &v.CitizenID, &v.ProcedureID, &v.ProcedureName, &v.Code, &v.Status,
		&v.ModuleDesk, &v.Outcome, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "ticket not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find ticket", err)
	}
	return &v, nil
}

func (s *TicketReadStore) HasPendingTicket(ctx context.Context, citizenID string, procedureID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM tickets
			WHERE citizen_id = $1 AND procedure_id = $2 AND status = 'pending'
		)`,
		citizenID, procedureID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check pending ticket", err)
	}
	return exists, nil
}

// PendingQueue lists pending tickets in generation order.
func (s *TicketReadStore) PendingQueue(ctx context.Context) ([]queries.QueueEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT t.id, t.code, t.citizen_id, t.procedure_id, p.name, t.created_at
		 FROM tickets t
		 JOIN procedures p ON p.id = t.procedure_id
		 WHERE t.status = 'pending'
		 ORDER BY t.created_at`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list pending tickets", err)
	}
	defer rows.Close()

	var entries []queries.QueueEntry
	for rows.Next() {
		e := queries.QueueEntry{Kind: queries.QueueKindTicket}
		if err := rows.Scan(&e.ID, &e.Code, &e.CitizenID, &e.ProcedureID, &e.ProcedureName, &e.At); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan queue ticket", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read queue tickets", err)
	}
	return entries, nil
}
