//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReapAbsent(t *testing.T) {
	ctx := context.Background()
	tolerance := 30 * time.Minute

	t.Run("closes only appointments past the tolerance", func(t *testing.T) {
		f := newFixture(t)
		overdue := f.book(t, "CC-100", "2026-03-02", "08:00")
		f.book(t, "CC-200", "2026-03-02", "09:00")

		// 08:45: the 08:00 slot is 15 min past tolerance, 09:00 is not due.
		f.clock.Set(time.Date(2026, 3, 2, 8, 45, 0, 0, testZone.Location()))

		closed, err := f.closure.ReapAbsent(ctx, tolerance, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, closed)

		a := f.store.appointments[overdue.AppointmentID]
		assert.Equal(t, appointment.StatusCompleted, a.Status())
		require.NotNil(t, a.Outcome())
		assert.Equal(t, appointment.OutcomeNotPresent, *a.Outcome())
		require.Len(t, f.store.audit, 1)
	})

	t.Run("rerun is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, "CC-100", "2026-03-02", "08:00")
		f.clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, testZone.Location()))

		closed, err := f.closure.ReapAbsent(ctx, tolerance, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, closed)

		closed, err = f.closure.ReapAbsent(ctx, tolerance, 100)
		require.NoError(t, err)
		assert.Equal(t, 0, closed)
		assert.Len(t, f.store.audit, 1)
	})

	t.Run("called appointments are left to close day", func(t *testing.T) {
		f := newFixture(t)
		result := f.book(t, "CC-100", "2026-03-02", "08:00")
		require.NoError(t, f.appointment.Call(ctx, result.AppointmentID, 1))
		f.clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, testZone.Location()))

		closed, err := f.closure.ReapAbsent(ctx, tolerance, 100)
		require.NoError(t, err)
		assert.Equal(t, 0, closed)
	})
}

func TestCloseDay(t *testing.T) {
	ctx := context.Background()

	t.Run("closes active and called, records reason and actor", func(t *testing.T) {
		f := newFixture(t)
		active := f.book(t, "CC-100", "2026-03-02", "08:00")
		called := f.book(t, "CC-200", "2026-03-02", "09:00")
		require.NoError(t, f.appointment.Call(ctx, called.AppointmentID, 3))

		done := f.book(t, "CC-300", "2026-03-02", "10:00")
		require.NoError(t, f.appointment.Finish(ctx, commands.FinishParams{
			ID: done.AppointmentID, Outcome: "served", AgentID: "agent-1",
		}))

		f.book(t, "CC-400", "2026-03-03", "08:00") // next day, untouched

		closed, err := f.closure.CloseDay(ctx, "2026-03-02", "end_of_day", "scheduler")
		require.NoError(t, err)
		assert.Equal(t, 2, closed)

		a := f.store.appointments[active.AppointmentID]
		assert.Equal(t, appointment.StatusCompleted, a.Status())
		require.NotNil(t, a.ClosedReason())
		assert.Equal(t, "end_of_day", *a.ClosedReason())
		require.NotNil(t, a.ClosedBy())
		assert.Equal(t, "scheduler", *a.ClosedBy())
	})

	t.Run("invalid date", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.closure.CloseDay(ctx, "02-03-2026", "end_of_day", "scheduler")
		assert.ErrorIs(t, err, commands.ErrInvalidSchedule)
	})
}

func TestResetKioskCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ticket.Create(ctx, "CC-100", f.passportID)
	require.NoError(t, err)
	f.book(t, "CC-200", "2026-03-02", "09:00")

	reset, err := f.closure.ResetKioskCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reset)

	// Kiosk numbering restarts; the web counter is untouched.
	assert.Equal(t, 0, f.store.counters[appointment.KioskPartition(f.passportID)])
	assert.Equal(t, 1, f.store.counters[appointment.WebPartition(f.passportID, "2026-03-02")])

	tk, err := f.ticket.Create(ctx, "CC-300", f.passportID)
	require.NoError(t, err)
	assert.Equal(t, "PA-001", tk.Code)
}
