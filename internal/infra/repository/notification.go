package repository

import (
	"context"
	"time"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"

	"github.com/google/uuid"
)

// NotificationRepository is the outbox for best-effort email side
// effects: jobs are written in the same transaction as the entity and
// delivered later by the sweep job.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, kind string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_jobs (id, kind, payload, run_at)
		 VALUES ($1,$2,$3,$4)`,
		uuid.New(), kind, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to enqueue notification job", err)
	}
	return nil
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}

// MaxDeliveryAttempts bounds redelivery of a failing job; past it the
// job is left unsent for operators to inspect.
const MaxDeliveryAttempts = 5

// ClaimDue returns up to limit due unsent jobs, bumping each job's
// attempt count. Jobs are marked sent only after delivery (MarkSent),
// so a crashed or failed sweep redelivers on the next run. The
// UPDATE..RETURNING claim keeps concurrent sweeps from double-claiming.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error) {
	rows, err := r.db.Query(ctx,
		`UPDATE notification_jobs SET attempts = attempts + 1
		 WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE sent_at IS NULL AND run_at <= $1 AND attempts < $3
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, kind, payload, run_at, attempts`,
		now, limit, MaxDeliveryAttempts,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Payload, &j.RunAt, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read notification jobs", err)
	}
	return jobs, nil
}

// MarkSent stamps a job delivered. Only called after the sender
// returned without error.
func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs SET sent_at = $2 WHERE id = $1`,
		id, now,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to mark notification job sent", err)
	}
	return nil
}
