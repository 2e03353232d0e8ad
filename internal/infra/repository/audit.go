package repository

import (
	"context"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"
	"consular-queue/internal/usecase/shared"
)

// AuditRepository appends service-closure audit rows. The composite key
// (source, entity, attention end) makes replays no-ops while letting a
// reopened-then-reclosed entity accumulate distinct entries.
type AuditRepository struct {
	db db.DBTX
}

func NewAuditRepository(dbtx db.DBTX) *AuditRepository {
	return &AuditRepository{db: dbtx}
}

func (r *AuditRepository) Append(ctx context.Context, rec shared.AuditRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO service_audit (source, entity_id, attention_end, code, outcome, agent_id, recorded_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (source, entity_id, attention_end) DO NOTHING`,
		rec.Source, rec.EntityID, rec.AttentionEnd, rec.Code, rec.Outcome, rec.AgentID, rec.RecordedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to append audit record", err)
	}
	return nil
}
