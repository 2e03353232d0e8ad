//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/config"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testZone = civil.MustZone("America/Bogota")

var testSchedule = config.ScheduleConfig{
	TimeZone:           "America/Bogota",
	WindowStart:        "08:00",
	WindowEnd:          "10:00",
	DefaultSlotMinutes: 15,
}

type availabilityFixture struct {
	procedures   *fakeProcedures
	holidays     *fakeHolidays
	appointments *fakeAppointments
	queries      queries.AvailabilityQueries
	passportID   uuid.UUID
	genericID    uuid.UUID
}

func newAvailabilityFixture() *availabilityFixture {
	f := &availabilityFixture{
		passportID: uuid.New(),
		genericID:  uuid.New(),
	}
	f.procedures = &fakeProcedures{views: map[uuid.UUID]*queries.ProcedureView{
		f.passportID: {ID: f.passportID, Name: "Passport", Prefix: "PA", DurationMin: 30},
		f.genericID:  {ID: f.genericID, Name: "General", Prefix: "GE"},
	}}
	f.holidays = &fakeHolidays{days: map[string]string{}}
	f.appointments = &fakeAppointments{}
	f.queries = queries.NewAvailabilityQueries(f.procedures, f.holidays, f.appointments, testZone, testSchedule)
	return f
}

func TestDaySlots(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the grid from the procedure duration", func(t *testing.T) {
		f := newAvailabilityFixture()
		// 2026-03-02 is a Monday.
		out, err := f.queries.DaySlots(ctx, f.passportID, "2026-03-02")
		require.NoError(t, err)
		assert.False(t, out.Closed)
		assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, out.Slots)
	})

	t.Run("falls back to the default slot length", func(t *testing.T) {
		f := newAvailabilityFixture()
		out, err := f.queries.DaySlots(ctx, f.genericID, "2026-03-02")
		require.NoError(t, err)
		assert.Len(t, out.Slots, 8)
		assert.Equal(t, "08:15", out.Slots[1])
	})

	t.Run("removes booked times", func(t *testing.T) {
		f := newAvailabilityFixture()
		f.appointments.scheduled = []time.Time{
			time.Date(2026, 3, 2, 8, 30, 0, 0, testZone.Location()),
			time.Date(2026, 3, 2, 9, 30, 0, 0, testZone.Location()),
			time.Date(2026, 3, 3, 8, 0, 0, 0, testZone.Location()), // other day
		}
		out, err := f.queries.DaySlots(ctx, f.passportID, "2026-03-02")
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00", "09:00"}, out.Slots)
	})

	t.Run("weekend is closed", func(t *testing.T) {
		f := newAvailabilityFixture()
		out, err := f.queries.DaySlots(ctx, f.passportID, "2026-03-07")
		require.NoError(t, err)
		assert.True(t, out.Closed)
		assert.Equal(t, "weekend", out.ClosedFor)
		assert.Empty(t, out.Slots)
	})

	t.Run("holiday is closed with its name", func(t *testing.T) {
		f := newAvailabilityFixture()
		f.holidays.days["2026-07-20"] = "Independence Day"
		out, err := f.queries.DaySlots(ctx, f.passportID, "2026-07-20")
		require.NoError(t, err)
		assert.True(t, out.Closed)
		assert.Equal(t, "Independence Day", out.ClosedFor)
	})

	t.Run("invalid date", func(t *testing.T) {
		f := newAvailabilityFixture()
		_, err := f.queries.DaySlots(ctx, f.passportID, "03/02/2026")
		assert.ErrorIs(t, err, queries.ErrInvalidDate)
	})

	t.Run("unknown procedure", func(t *testing.T) {
		f := newAvailabilityFixture()
		_, err := f.queries.DaySlots(ctx, uuid.New(), "2026-03-02")
		assert.ErrorIs(t, err, queries.ErrProcedureNotFound)
	})
}
