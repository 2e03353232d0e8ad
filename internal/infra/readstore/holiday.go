package readstore

import (
	"context"
	"errors"

	"consular-queue/internal/infra"
	"consular-queue/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

type HolidayReadStore struct {
	db db.DBTX
}

func NewHolidayReadStore(dbtx db.DBTX) *HolidayReadStore {
	return &HolidayReadStore{db: dbtx}
}

// Holiday returns the holiday name for the calendar date, or ok=false
// when the day is a working day.
func (s *HolidayReadStore) Holiday(ctx context.Context, date string) (name string, ok bool, err error) {
	err = s.db.QueryRow(ctx,
		`SELECT name FROM holidays WHERE day = $1`,
		date,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, infra.WrapRepoErr(infra.KindDBFailure, "failed to check holiday", err)
	}
	return name, true, nil
}
