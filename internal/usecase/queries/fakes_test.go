//go:build unit

package queries_test

import (
	"context"
	"time"

	"consular-queue/internal/infra"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

type fakeProcedures struct {
	views map[uuid.UUID]*queries.ProcedureView
}

func (f *fakeProcedures) ByID(_ context.Context, id uuid.UUID) (*queries.ProcedureView, error) {
	v, ok := f.views[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "procedure not found", nil)
	}
	return v, nil
}

func (f *fakeProcedures) List(_ context.Context) ([]*queries.ProcedureView, error) {
	out := make([]*queries.ProcedureView, 0, len(f.views))
	for _, v := range f.views {
		out = append(out, v)
	}
	return out, nil
}

type fakeHolidays struct {
	days map[string]string
}

func (f *fakeHolidays) Holiday(_ context.Context, date string) (string, bool, error) {
	name, ok := f.days[date]
	return name, ok, nil
}

type fakeAppointments struct {
	views     map[uuid.UUID]*queries.AppointmentView
	scheduled []time.Time
	active    map[string]bool // citizenID -> has open appointment
	eligible  []queries.QueueEntry
}

func (f *fakeAppointments) ViewByID(_ context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	v, ok := f.views[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "appointment not found", nil)
	}
	return v, nil
}

func (f *fakeAppointments) ListByRange(_ context.Context, from, to time.Time) ([]*queries.AppointmentView, error) {
	var out []*queries.AppointmentView
	for _, v := range f.views {
		if !v.ScheduledAt.Before(from) && v.ScheduledAt.Before(to) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeAppointments) ScheduledTimes(_ context.Context, _ uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, t := range f.scheduled {
		if !t.Before(from) && t.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeAppointments) HasActiveAppointment(_ context.Context, citizenID string, _ uuid.UUID) (bool, error) {
	return f.active[citizenID], nil
}

func (f *fakeAppointments) EligibleQueue(_ context.Context, dayStart, now time.Time) ([]queries.QueueEntry, error) {
	var out []queries.QueueEntry
	for _, e := range f.eligible {
		if !e.At.Before(dayStart) && !e.At.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTickets struct {
	views   map[uuid.UUID]*queries.TicketView
	pending []queries.QueueEntry
}

func (f *fakeTickets) ViewByID(_ context.Context, id uuid.UUID) (*queries.TicketView, error) {
	v, ok := f.views[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "ticket not found", nil)
	}
	return v, nil
}

func (f *fakeTickets) PendingQueue(_ context.Context) ([]queries.QueueEntry, error) {
	return f.pending, nil
}
