package queries

import (
	"context"
	"time"

	"consular-queue/internal/domain/schedule"
	"consular-queue/internal/infra"
	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/config"
	"consular-queue/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrProcedureNotFound = errs.New("procedure not found")
	ErrInvalidDate       = errs.New("invalid date")
)

// DayAvailability is the slot preview for one procedure on one civil
// day. Closed days return an empty slot list plus the reason; the
// preview is advisory and booking re-validates against the lock table.
type DayAvailability struct {
	ProcedureID uuid.UUID
	Date        string
	Slots       []string
	Closed      bool
	ClosedFor   string // "weekend" or the holiday name
}

type AvailabilityQueries interface {
	DaySlots(ctx context.Context, procedureID uuid.UUID, date string) (*DayAvailability, error)
}

type availabilityQueriesImpl struct {
	procedures   ProcedureReader
	holidays     HolidayReader
	appointments AppointmentReader
	zone         civil.Zone
	schedule     config.ScheduleConfig
}

func NewAvailabilityQueries(
	procedures ProcedureReader,
	holidays HolidayReader,
	appointments AppointmentReader,
	zone civil.Zone,
	scheduleCfg config.ScheduleConfig,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		procedures:   procedures,
		holidays:     holidays,
		appointments: appointments,
		zone:         zone,
		schedule:     scheduleCfg,
	}
}

func (q *availabilityQueriesImpl) DaySlots(ctx context.Context, procedureID uuid.UUID, date string) (*DayAvailability, error) {
	if !civil.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	proc, err := q.procedures.ByID(ctx, procedureID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProcedureNotFound
		}
		return nil, errs.Wrap(err, "failed to load procedure")
	}

	out := &DayAvailability{ProcedureID: procedureID, Date: date, Slots: []string{}}

	weekday, err := q.zone.Weekday(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if weekday == time.Saturday || weekday == time.Sunday {
		out.Closed = true
		out.ClosedFor = "weekend"
		return out, nil
	}

	if name, isHoliday, err := q.holidays.Holiday(ctx, date); err != nil {
		return nil, errs.Wrap(err, "failed to check holiday calendar")
	} else if isHoliday {
		out.Closed = true
		out.ClosedFor = name
		return out, nil
	}

	step := proc.DurationMin
	if step <= 0 {
		step = q.schedule.DefaultSlotMinutes
	}
	grid, err := schedule.Grid(q.schedule.WindowStart, q.schedule.WindowEnd, step)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build slot grid")
	}

	from, to, err := q.zone.DayBounds(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	booked, err := q.appointments.ScheduledTimes(ctx, procedureID, from, to)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load booked slots")
	}
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[q.zone.TimeOfDay(t)] = struct{}{}
	}

	out.Slots = schedule.Remove(grid, taken)
	return out, nil
}
