package repository

import (
	"context"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"
)

// SequenceRepository owns the per-partition counters behind sequence
// codes. The single upsert statement gives the atomic read-modify-write;
// never cache a counter value in process memory.
type SequenceRepository struct {
	db db.DBTX
}

func NewSequenceRepository(dbtx db.DBTX) *SequenceRepository {
	return &SequenceRepository{db: dbtx}
}

func (r *SequenceRepository) Next(ctx context.Context, partitionKey string) (int, error) {
	var value int
	err := r.db.QueryRow(ctx,
		`INSERT INTO sequence_counters (partition_key, current_value)
		 VALUES ($1, 1)
		 ON CONFLICT (partition_key)
		 DO UPDATE SET current_value = sequence_counters.current_value + 1
		 RETURNING current_value`,
		partitionKey,
	).Scan(&value)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to advance sequence "+partitionKey, err)
	}
	return value, nil
}

// ResetKiosk zeroes every kiosk counter. Web counters partition by day
// and are intentionally never reset.
func (r *SequenceRepository) ResetKiosk(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE sequence_counters SET current_value = 0 WHERE partition_key LIKE 'kiosk:%'`,
	)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to reset kiosk counters", err)
	}
	return int(tag.RowsAffected()), nil
}
