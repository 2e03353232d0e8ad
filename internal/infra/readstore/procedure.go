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

type ProcedureReadStore struct {
	db db.DBTX
}

func NewProcedureReadStore(dbtx db.DBTX) *ProcedureReadStore {
	return &ProcedureReadStore{db: dbtx}
}

func (s *ProcedureReadStore) ByID(ctx context.Context, id uuid.UUID) (*queries.ProcedureView, error) {
	var v queries.ProcedureView
	err := s.db.QueryRow(ctx,
		`SELECT id, name, prefix, duration_min FROM procedures WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.Prefix, &v.DurationMin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "procedure not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find procedure", err)
	}
	return &v, nil
}

func (s *ProcedureReadStore) List(ctx context.Context) ([]*queries.ProcedureView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, prefix, duration_min FROM procedures ORDER BY name`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list procedures", err)
	}
	defer rows.Close()

	var views []*queries.ProcedureView
	for rows.Next() {
		var v queries.ProcedureView
		if err := rows.Scan(&v.ID, &v.Name, &v.Prefix, &v.DurationMin); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan procedure", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read procedures", err)
	}
	return views, nil
}
