package repository

import (
	"context"
	"errors"
	"time"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/domain/ticket"
	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ticketColumns = `id, citizen_id, procedure_id, code, status,
	module_desk, outcome, comment, agent_id, attention_end,
	created_at, updated_at`

type TicketRepository struct {
	db db.DBTX
}

func NewTicketRepository(dbtx db.DBTX) *TicketRepository {
	return &TicketRepository{db: dbtx}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tickets (`+ticketColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		t.ID(), t.CitizenID(), t.ProcedureID(), t.Code(), t.Status(),
		t.ModuleDesk(), t.Outcome(), t.Comment(), t.AgentID(), t.AttentionEnd(),
		t.CreatedAt(), t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert ticket", err)
	}
	return nil
}

func (r *TicketRepository) Get(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1 FOR UPDATE`,
		id,
	)
	return scanTicket(row)
}

func (r *TicketRepository) UpdateState(ctx context.Context, t *ticket.Ticket) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tickets SET
			status = $2, module_desk = $3, outcome = $4, comment = $5,
			agent_id = $6, attention_end = $7, updated_at = $8
		 WHERE id = $1`,
		t.ID(), t.Status(), t.ModuleDesk(), t.Outcome(), t.Comment(),
		t.AgentID(), t.AttentionEnd(), t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "ticket not found", nil)
	}
	return nil
}

func scanTicket(row pgx.Row) (*ticket.Ticket, error) {
	var (
		id           uuid.UUID
		citizenID    string
		procedureID  uuid.UUID
		code         string
		status       string
		moduleDesk   *int
		outcome      *string
		comment      *string
		agentID      *string
		attentionEnd *time.Time
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&id, &citizenID, &procedureID, &code, &status,
		&moduleDesk, &outcome, &comment, &agentID, &attentionEnd,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "ticket not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan ticket", err)
	}

	var outcomeVal *appointment.Outcome
	if outcome != nil {
		o := appointment.Outcome(*outcome)
		outcomeVal = &o
	}

	return ticket.Reconstruct(
		id, citizenID, procedureID, code, ticket.Status(status),
		moduleDesk, outcomeVal, comment, agentID, attentionEnd,
		createdAt, updatedAt,
	), nil
}
