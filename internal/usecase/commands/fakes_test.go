//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"consular-queue/internal/domain/appointment"
	"consular-queue/internal/domain/ticket"
	"consular-queue/internal/infra"
	"consular-queue/internal/usecase/queries"
	"consular-queue/internal/usecase/shared"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore backs the in-memory unit of work used by command tests. One
// mutex serializes transactions the way row locks would; a failed
// transaction restores the pre-transaction snapshot.
type memStore struct {
	mu sync.Mutex

	appointments  map[uuid.UUID]*appointment.Appointment
	tickets       map[uuid.UUID]*ticket.Ticket
	locks         map[string]uuid.UUID
	counters      map[string]int
	audit         []shared.AuditRecord
	notifications []memNotification
}

type memNotification struct {
	Kind    string
	Payload []byte
	RunAt   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		appointments: make(map[uuid.UUID]*appointment.Appointment),
		tickets:      make(map[uuid.UUID]*ticket.Ticket),
		locks:        make(map[string]uuid.UUID),
		counters:     make(map[string]int),
	}
}

type memSnapshot struct {
	appointments  map[uuid.UUID]*appointment.Appointment
	tickets       map[uuid.UUID]*ticket.Ticket
	locks         map[string]uuid.UUID
	counters      map[string]int
	audit         int
	notifications int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		appointments:  make(map[uuid.UUID]*appointment.Appointment, len(s.appointments)),
		tickets:       make(map[uuid.UUID]*ticket.Ticket, len(s.tickets)),
		locks:         make(map[string]uuid.UUID, len(s.locks)),
		counters:      make(map[string]int, len(s.counters)),
		audit:         len(s.audit),
		notifications: len(s.notifications),
	}
	for k, v := range s.appointments {
		snap.appointments[k] = v
	}
	for k, v := range s.tickets {
		snap.tickets[k] = v
	}
	for k, v := range s.locks {
		snap.locks[k] = v
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.appointments = snap.appointments
	s.tickets = snap.tickets
	s.locks = snap.locks
	s.counters = snap.counters
	s.audit = s.audit[:snap.audit]
	s.notifications = s.notifications[:snap.notifications]
}

type memUoW struct {
	store *memStore
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(ctx, &memTx{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) Appointments() shared.AppointmentRepository   { return &memAppointments{t.store} }
func (t *memTx) Tickets() shared.TicketRepository             { return &memTickets{t.store} }
func (t *memTx) Locks() shared.LockRepository                 { return &memLocks{t.store} }
func (t *memTx) Sequences() shared.SequenceRepository         { return &memSequences{t.store} }
func (t *memTx) Audit() shared.AuditRepository                { return &memAudit{t.store} }
func (t *memTx) Notifications() shared.NotificationRepository { return &memNotifications{t.store} }

type memAppointments struct{ store *memStore }

// openConflict mirrors the partial unique index on open
// (citizen_id, procedure_id) rows.
func (r *memAppointments) openConflict(a *appointment.Appointment) bool {
	if a.Status() == appointment.StatusCompleted {
		return false
	}
	for id, other := range r.store.appointments {
		if id == a.ID() || other.Status() == appointment.StatusCompleted {
			continue
		}
		if other.CitizenID() == a.CitizenID() && other.ProcedureID() == a.ProcedureID() {
			return true
		}
	}
	return false
}

func (r *memAppointments) Create(_ context.Context, a *appointment.Appointment) error {
	if r.openConflict(a) {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "open appointment already exists for citizen and procedure", nil)
	}
	r.store.appointments[a.ID()] = a
	return nil
}

// Get hands back a reconstructed copy, like a row scan would, so
// entity mutations inside a rolled-back transaction never leak into
// the store.
func (r *memAppointments) Get(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "appointment not found", nil)
	}
	return appointment.Reconstruct(
		a.ID(), a.CitizenID(), a.ProcedureID(), a.ScheduledAt(), a.Code(), a.Status(),
		a.Profile(), a.ResourceLockKey(), a.SubjectLockKey(),
		a.Module(), a.Outcome(), a.Comment(), a.AgentID(),
		a.AttentionEnd(), a.ReopenedAt(), a.ClosedReason(), a.ClosedBy(),
		a.CreatedAt(), a.UpdatedAt(),
	), nil
}

func (r *memAppointments) UpdateState(_ context.Context, a *appointment.Appointment) error {
	if r.openConflict(a) {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "open appointment already exists for citizen and procedure", nil)
	}
	r.store.appointments[a.ID()] = a
	return nil
}

func (r *memAppointments) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.appointments[id]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "appointment not found", nil)
	}
	delete(r.store.appointments, id)
	return nil
}

type memTickets struct{ store *memStore }

func (r *memTickets) Create(_ context.Context, tk *ticket.Ticket) error {
	r.store.tickets[tk.ID()] = tk
	return nil
}

func (r *memTickets) Get(_ context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	tk, ok := r.store.tickets[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "ticket not found", nil)
	}
	return ticket.Reconstruct(
		tk.ID(), tk.CitizenID(), tk.ProcedureID(), tk.Code(), tk.Status(),
		tk.ModuleDesk(), tk.Outcome(), tk.Comment(), tk.AgentID(),
		tk.AttentionEnd(), tk.CreatedAt(), tk.UpdatedAt(),
	), nil
}

func (r *memTickets) UpdateState(_ context.Context, tk *ticket.Ticket) error {
	r.store.tickets[tk.ID()] = tk
	return nil
}

type memLocks struct{ store *memStore }

func (r *memLocks) Acquire(_ context.Context, key, _ string, ownerID uuid.UUID, _ time.Time) error {
	if _, taken := r.store.locks[key]; taken {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "lock already held", nil)
	}
	r.store.locks[key] = ownerID
	return nil
}

func (r *memLocks) Release(_ context.Context, key string) error {
	delete(r.store.locks, key)
	return nil
}

type memSequences struct{ store *memStore }

func (r *memSequences) Next(_ context.Context, partitionKey string) (int, error) {
	r.store.counters[partitionKey]++
	return r.store.counters[partitionKey], nil
}

type memAudit struct{ store *memStore }

func (r *memAudit) Append(_ context.Context, rec shared.AuditRecord) error {
	for _, existing := range r.store.audit {
		if existing.Source == rec.Source &&
			existing.EntityID == rec.EntityID &&
			existing.AttentionEnd.Equal(rec.AttentionEnd) {
			return nil
		}
	}
	r.store.audit = append(r.store.audit, rec)
	return nil
}

type memNotifications struct{ store *memStore }

func (r *memNotifications) Enqueue(_ context.Context, kind string, payload []byte, runAt time.Time) error {
	r.store.notifications = append(r.store.notifications, memNotification{Kind: kind, Payload: payload, RunAt: runAt})
	return nil
}

// lockReleaser is the out-of-transaction release port used after
// cancellation commits.
type lockReleaser struct{ store *memStore }

func (r *lockReleaser) Release(_ context.Context, key string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.locks, key)
	return nil
}

type memProcedures struct {
	views map[uuid.UUID]*queries.ProcedureView
}

func (r *memProcedures) ByID(_ context.Context, id uuid.UUID) (*queries.ProcedureView, error) {
	v, ok := r.views[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "procedure not found", nil)
	}
	return v, nil
}

type memBookingReads struct{ store *memStore }

func (r *memBookingReads) HasActiveAppointment(_ context.Context, citizenID string, procedureID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.appointments {
		if a.CitizenID() == citizenID && a.ProcedureID() == procedureID && a.Status() != appointment.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

type memTicketReads struct{ store *memStore }

func (r *memTicketReads) HasPendingTicket(_ context.Context, citizenID string, procedureID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, tk := range r.store.tickets {
		if tk.CitizenID() == citizenID && tk.ProcedureID() == procedureID && tk.Status() == ticket.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

type memClosureReads struct{ store *memStore }

func (r *memClosureReads) OverdueActiveIDs(_ context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var ids []uuid.UUID
	for id, a := range r.store.appointments {
		if a.Status() == appointment.StatusActive && a.ScheduledAt().Before(cutoff) {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (r *memClosureReads) OpenIDsInRange(_ context.Context, from, to time.Time) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var ids []uuid.UUID
	for id, a := range r.store.appointments {
		if !a.Status().IsOpen() {
			continue
		}
		at := a.ScheduledAt()
		if !at.Before(from) && at.Before(to) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memCounterReset struct{ store *memStore }

func (r *memCounterReset) ResetKiosk(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	reset := 0
	for key := range r.store.counters {
		if strings.HasPrefix(key, "kiosk:") {
			r.store.counters[key] = 0
			reset++
		}
	}
	return reset, nil
}
