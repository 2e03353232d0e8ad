package repository

import (
	"context"
	"errors"
	"time"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

// LockRepository guards slot occupancy through bare lock rows: the
// existence of a key is the whole invariant.
type LockRepository struct {
	db db.DBTX
}

func NewLockRepository(dbtx db.DBTX) *LockRepository {
	return &LockRepository{db: dbtx}
}

// Acquire reads for existence first, then inserts. Under read committed
// two concurrent acquirers can both miss the read; the primary key then
// rejects the second insert, which surfaces as the same duplicate kind.
func (r *LockRepository) Acquire(ctx context.Context, key, kind string, ownerID uuid.UUID, now time.Time) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM slot_locks WHERE lock_key = $1)`,
		key,
	).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to check lock existence", err)
	}
	if exists {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "lock already held: "+key, nil)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO slot_locks (lock_key, kind, appointment_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		key, kind, ownerID, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "lock already held: "+key, err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert lock", err)
	}
	return nil
}

// Release is an idempotent delete: a missing row is a no-op since
// cancellation may race with the reaper.
func (r *LockRepository) Release(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM slot_locks WHERE lock_key = $1`, key)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to release lock", err)
	}
	return nil
}
