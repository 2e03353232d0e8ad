//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/pkg/civil"
	"consular-queue/internal/pkg/clock"
	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testZone = civil.MustZone("America/Bogota")
	testNow  = time.Date(2026, 3, 2, 7, 0, 0, 0, testZone.Location())
)

type commandFixture struct {
	store       *memStore
	clock       *clock.MockClock
	procedures  *memProcedures
	passportID  uuid.UUID
	visaID      uuid.UUID
	appointment commands.AppointmentCommands
	ticket      commands.TicketCommands
	closure     commands.ClosureCommands
}

func newFixture(t *testing.T) *commandFixture {
	t.Helper()

	f := &commandFixture{
		store:      newMemStore(),
		clock:      clock.NewMockClock(testNow),
		passportID: uuid.New(),
		visaID:     uuid.New(),
	}
	f.procedures = &memProcedures{views: map[uuid.UUID]*queries.ProcedureView{
		f.passportID: {ID: f.passportID, Name: "Passport", Prefix: "PA", DurationMin: 15},
		f.visaID:     {ID: f.visaID, Name: "Visa", Prefix: "VI", DurationMin: 30},
	}}

	uow := &memUoW{store: f.store}
	f.appointment = commands.NewAppointmentCommands(
		uow, f.procedures, &lockReleaser{store: f.store}, testZone, f.clock,
	)
	f.ticket = commands.NewTicketCommands(
		uow, f.procedures, &memBookingReads{store: f.store}, &memTicketReads{store: f.store}, f.clock,
	)
	f.closure = commands.NewClosureCommands(
		uow, &memClosureReads{store: f.store}, &memCounterReset{store: f.store},
		testZone, f.clock, testLogger(),
	)
	return f
}

func (f *commandFixture) book(t *testing.T, citizenID, date, timeOfDay string) *commands.BookingResult {
	t.Helper()
	result, err := f.appointment.Book(context.Background(), commands.BookAppointmentParams{
		CitizenID:   citizenID,
		ProcedureID: f.passportID,
		Date:        date,
		TimeOfDay:   timeOfDay,
		Profile:     appointment.Profile{Name: "Ana Torres", Email: "ana@example.com"},
	})
	require.NoError(t, err)
	return result
}

func TestBook_AssignsDenseSequenceCodes(t *testing.T) {
	f := newFixture(t)

	first := f.book(t, "CC-100", "2026-03-02", "09:00")
	second := f.book(t, "CC-200", "2026-03-02", "09:15")

	assert.Equal(t, "CPA-001", first.Code)
	assert.Equal(t, "CPA-002", second.Code)

	stored := f.store.appointments[first.AppointmentID]
	require.NotNil(t, stored)
	assert.Equal(t, "CPA-001", stored.Code())
	assert.Equal(t, appointment.StatusActive, stored.Status())
}

func TestBook_WritesBothLocksAndNotification(t *testing.T) {
	f := newFixture(t)

	result := f.book(t, "CC-100", "2026-03-02", "09:00")

	resourceKey := appointment.ResourceLockKey(f.passportID, "2026-03-02", "09:00")
	subjectKey := appointment.SubjectLockKey("CC-100", "2026-03-02", "09:00")
	assert.Equal(t, result.AppointmentID, f.store.locks[resourceKey])
	assert.Equal(t, result.AppointmentID, f.store.locks[subjectKey])

	require.Len(t, f.store.notifications, 1)
	assert.Equal(t, "appointment_booked", f.store.notifications[0].Kind)
}

func TestBook_SlotConflict(t *testing.T) {
	f := newFixture(t)
	f.book(t, "CC-100", "2026-03-02", "09:00")

	_, err := f.appointment.Book(context.Background(), commands.BookAppointmentParams{
		CitizenID:   "CC-200",
		ProcedureID: f.passportID,
		Date:        "2026-03-02",
		TimeOfDay:   "09:00",
	})
	assert.ErrorIs(t, err, commands.ErrSlotTaken)

	// The loser's transaction must not advance the counter or leave rows.
	assert.Equal(t, 1, f.store.counters[appointment.WebPartition(f.passportID, "2026-03-02")])
	assert.Len(t, f.store.appointments, 1)
	assert.Len(t, f.store.locks, 2)
}

func TestBook_OneOpenBookingPerProcedure(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, "CC-100", "2026-03-02", "09:00")

	// Same citizen, same procedure, a different free slot: the open
	// (citizen, procedure) uniqueness rejects it even though no lock
	// collides.
	_, err := f.appointment.Book(context.Background(), commands.BookAppointmentParams{
		CitizenID:   "CC-100",
		ProcedureID: f.passportID,
		Date:        "2026-03-02",
		TimeOfDay:   "10:00",
	})
	assert.ErrorIs(t, err, commands.ErrDuplicateBooking)

	// The rejected attempt's locks roll back, so the 10:00 slot stays free.
	_, held := f.store.locks[appointment.ResourceLockKey(f.passportID, "2026-03-02", "10:00")]
	assert.False(t, held)
	assert.Len(t, f.store.appointments, 1)

	// Completing the open appointment frees the pair for a new booking.
	require.NoError(t, f.appointment.Finish(context.Background(), commands.FinishParams{
		ID: first.AppointmentID, Outcome: "served", AgentID: "agent-1",
	}))
	f.book(t, "CC-100", "2026-03-02", "10:00")
}

func TestReopen_BlockedByNewerOpenBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.book(t, "CC-100", "2026-03-02", "09:00")
	require.NoError(t, f.appointment.Finish(ctx, commands.FinishParams{
		ID: first.AppointmentID, Outcome: "served", AgentID: "agent-1",
	}))
	f.book(t, "CC-100", "2026-03-02", "10:00")

	_, err := f.appointment.Reopen(ctx, first.AppointmentID)
	assert.ErrorIs(t, err, commands.ErrDuplicateBooking)

	a := f.store.appointments[first.AppointmentID]
	assert.Equal(t, appointment.StatusCompleted, a.Status())
}

func TestBook_CitizenDoubleBooking(t *testing.T) {
	f := newFixture(t)
	f.book(t, "CC-100", "2026-03-02", "09:00")

	// Same citizen, same instant, different procedure.
	_, err := f.appointment.Book(context.Background(), commands.BookAppointmentParams{
		CitizenID:   "CC-100",
		ProcedureID: f.visaID,
		Date:        "2026-03-02",
		TimeOfDay:   "09:00",
	})
	assert.ErrorIs(t, err, commands.ErrCitizenBusy)

	// The visa slot lock acquired before the subject conflict rolls back.
	visaKey := appointment.ResourceLockKey(f.visaID, "2026-03-02", "09:00")
	_, held := f.store.locks[visaKey]
	assert.False(t, held)
}

func TestBook_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params commands.BookAppointmentParams
		want   error
	}{
		{
			name: "unknown procedure",
			params: commands.BookAppointmentParams{
				CitizenID: "CC-1", ProcedureID: uuid.New(), Date: "2026-03-02", TimeOfDay: "09:00",
			},
			want: commands.ErrProcedureNotFound,
		},
		{
			name: "bad date",
			params: commands.BookAppointmentParams{
				CitizenID: "CC-1", ProcedureID: f.passportID, Date: "02/03/2026", TimeOfDay: "09:00",
			},
			want: commands.ErrInvalidSchedule,
		},
		{
			name: "bad time",
			params: commands.BookAppointmentParams{
				CitizenID: "CC-1", ProcedureID: f.passportID, Date: "2026-03-02", TimeOfDay: "9:00",
			},
			want: commands.ErrInvalidSchedule,
		},
		{
			name: "empty citizen",
			params: commands.BookAppointmentParams{
				CitizenID: "  ", ProcedureID: f.passportID, Date: "2026-03-02", TimeOfDay: "09:00",
			},
			want: commands.ErrInvalidSchedule,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.appointment.Book(ctx, tc.params)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBook_ConcurrentClaimsSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = f.appointment.Book(ctx, commands.BookAppointmentParams{
				CitizenID:   uuid.NewString(),
				ProcedureID: f.passportID,
				Date:        "2026-03-02",
				TimeOfDay:   "10:00",
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, commands.ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, won)
	assert.Len(t, f.store.appointments, 1)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("releases locks and frees the slot", func(t *testing.T) {
		result := f.book(t, "CC-100", "2026-03-02", "09:00")

		require.NoError(t, f.appointment.Cancel(ctx, result.AppointmentID))
		assert.Empty(t, f.store.appointments)
		assert.Empty(t, f.store.locks)

		// Slot is claimable again; the counter keeps counting.
		rebooked := f.book(t, "CC-200", "2026-03-02", "09:00")
		assert.Equal(t, "CPA-002", rebooked.Code)
	})

	t.Run("called appointment is not cancelable", func(t *testing.T) {
		result := f.book(t, "CC-300", "2026-03-02", "11:00")
		require.NoError(t, f.appointment.Call(ctx, result.AppointmentID, 2))

		err := f.appointment.Cancel(ctx, result.AppointmentID)
		assert.ErrorIs(t, err, commands.ErrNotCancelable)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		err := f.appointment.Cancel(ctx, uuid.New())
		assert.ErrorIs(t, err, commands.ErrAppointmentNotFound)
	})
}

func TestFinish_AppendsAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.book(t, "CC-100", "2026-03-02", "09:00")
	require.NoError(t, f.appointment.Call(ctx, result.AppointmentID, 4))
	require.NoError(t, f.appointment.Finish(ctx, commands.FinishParams{
		ID: result.AppointmentID, Outcome: "served", Comment: "ok", AgentID: "agent-1",
	}))

	require.Len(t, f.store.audit, 1)
	rec := f.store.audit[0]
	assert.Equal(t, "appointment", rec.Source)
	assert.Equal(t, result.AppointmentID, rec.EntityID)
	assert.Equal(t, "CPA-001", rec.Code)
	assert.Equal(t, appointment.OutcomeServed, rec.Outcome)
	assert.Equal(t, "agent-1", rec.AgentID)
}

func TestFinish_OutcomeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	result := f.book(t, "CC-100", "2026-03-02", "09:00")

	err := f.appointment.Finish(ctx, commands.FinishParams{ID: result.AppointmentID, AgentID: "agent-1"})
	assert.ErrorIs(t, err, commands.ErrInvalidOutcome)

	err = f.appointment.Finish(ctx, commands.FinishParams{
		ID: result.AppointmentID, Outcome: "vanished", AgentID: "agent-1",
	})
	assert.ErrorIs(t, err, commands.ErrInvalidOutcome)
}

func TestReopen_ThenRefinishYieldsSecondAuditRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.book(t, "CC-100", "2026-03-02", "09:00")
	require.NoError(t, f.appointment.Finish(ctx, commands.FinishParams{
		ID: result.AppointmentID, Outcome: "did_not_appear", AgentID: "agent-1",
	}))

	previous, err := f.appointment.Reopen(ctx, result.AppointmentID)
	require.NoError(t, err)
	assert.Equal(t, "completed", previous)

	// A later close gets a different attention end, hence a new row.
	f.clock.Add(10 * time.Minute)
	require.NoError(t, f.appointment.Finish(ctx, commands.FinishParams{
		ID: result.AppointmentID, Outcome: "served", AgentID: "agent-2",
	}))

	require.Len(t, f.store.audit, 2)
	assert.Equal(t, appointment.OutcomeNotPresent, f.store.audit[0].Outcome)
	assert.Equal(t, appointment.OutcomeServed, f.store.audit[1].Outcome)
}

func TestReopen_RequiresCompleted(t *testing.T) {
	f := newFixture(t)
	result := f.book(t, "CC-100", "2026-03-02", "09:00")

	_, err := f.appointment.Reopen(context.Background(), result.AppointmentID)
	assert.ErrorIs(t, err, commands.ErrInvalidTransition)
}
