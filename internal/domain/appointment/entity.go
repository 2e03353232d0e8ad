package appointment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCitizenID = errors.New("citizen id cannot be empty")
	ErrNotActive      = errors.New("appointment is not active")
)

// Profile carries the citizen contact details captured at booking time.
// Used only for display and best-effort notifications.
type Profile struct {
	Name  string
	Email string
	Phone string
}

// Appointment is a web booking: one citizen, one procedure, one slot.
// Both lock keys are stored on the record so cancellation can find and
// release them without re-deriving key formats.
type Appointment struct {
	id              uuid.UUID
	citizenID       string
	procedureID     uuid.UUID
	scheduledAt     time.Time
	code            string
	status          Status
	profile         Profile
	resourceLockKey string
	subjectLockKey  string

	module       *int
	outcome      *Outcome
	comment      *string
	agentID      *string
	attentionEnd *time.Time
	reopenedAt   *time.Time
	closedReason *string
	closedBy     *string

	createdAt time.Time
	updatedAt time.Time
}

func NewAppointment(
	citizenID string,
	procedureID uuid.UUID,
	scheduledAt time.Time,
	code string,
	profile Profile,
	resourceLockKey, subjectLockKey string,
	now time.Time,
) (*Appointment, error) {
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" {
		return nil, ErrEmptyCitizenID
	}
	return &Appointment{
		id:              uuid.New(),
		citizenID:       citizenID,
		procedureID:     procedureID,
		scheduledAt:     scheduledAt,
		code:            code,
		status:          StatusActive,
		profile:         profile,
		resourceLockKey: resourceLockKey,
		subjectLockKey:  subjectLockKey,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	citizenID string,
	procedureID uuid.UUID,
	scheduledAt time.Time,
	code string,
	status Status,
	profile Profile,
	resourceLockKey, subjectLockKey string,
	module *int,
	outcome *Outcome,
	comment, agentID *string,
	attentionEnd, reopenedAt *time.Time,
	closedReason, closedBy *string,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:              id,
		citizenID:       citizenID,
		procedureID:     procedureID,
		scheduledAt:     scheduledAt,
		code:            code,
		status:          status,
		profile:         profile,
		resourceLockKey: resourceLockKey,
		subjectLockKey:  subjectLockKey,
		module:          module,
		outcome:         outcome,
		comment:         comment,
		agentID:         agentID,
		attentionEnd:    attentionEnd,
		reopenedAt:      reopenedAt,
		closedReason:    closedReason,
		closedBy:        closedBy,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// AssignCode sets the sequence code once, after allocation. The entity
// is created before its code so the lock records can reference its id.
func (a *Appointment) AssignCode(code string) error {
	if a.code != "" {
		return errors.New("sequence code already assigned")
	}
	a.code = code
	return nil
}

// Call transitions active -> called and stamps the service module.
func (a *Appointment) Call(module int, now time.Time) error {
	if !a.status.CanTransitionTo(StatusCalled) {
		return ErrInvalidTransition
	}
	a.status = StatusCalled
	a.module = &module
	a.updatedAt = now
	return nil
}

// Finish transitions {active, called} -> completed.
func (a *Appointment) Finish(outcome Outcome, comment, agentID string, now time.Time) error {
	if !a.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	a.status = StatusCompleted
	a.outcome = &outcome
	if comment != "" {
		a.comment = &comment
	}
	if agentID != "" {
		a.agentID = &agentID
	}
	end := now
	a.attentionEnd = &end
	a.updatedAt = now
	return nil
}

// CloseBulk is the end-of-day closure path: completed with outcome
// "did not appear" plus the bulk metadata trail.
func (a *Appointment) CloseBulk(reason, actorID string, now time.Time) error {
	if err := a.Finish(OutcomeNotPresent, "", actorID, now); err != nil {
		return err
	}
	a.closedReason = &reason
	a.closedBy = &actorID
	return nil
}

// Reopen transitions completed -> active, clearing completion-only
// fields so a later finish produces a fresh, distinct audit entry.
// Returns the previous status.
func (a *Appointment) Reopen(now time.Time) (Status, error) {
	prev := a.status
	if !a.status.CanTransitionTo(StatusActive) {
		return prev, ErrInvalidTransition
	}
	a.status = StatusActive
	a.outcome = nil
	a.attentionEnd = nil
	a.closedReason = nil
	a.closedBy = nil
	reopened := now
	a.reopenedAt = &reopened
	a.updatedAt = now
	return prev, nil
}

// Cancelable reports whether citizen self-cancellation is permitted.
func (a *Appointment) Cancelable() bool {
	return a.status == StatusActive
}

func (a *Appointment) ID() uuid.UUID           { return a.id }
func (a *Appointment) CitizenID() string       { return a.citizenID }
func (a *Appointment) ProcedureID() uuid.UUID  { return a.procedureID }
func (a *Appointment) ScheduledAt() time.Time  { return a.scheduledAt }
func (a *Appointment) Code() string            { return a.code }
func (a *Appointment) Status() Status          { return a.status }
func (a *Appointment) Profile() Profile        { return a.profile }
func (a *Appointment) ResourceLockKey() string { return a.resourceLockKey }
func (a *Appointment) SubjectLockKey() string  { return a.subjectLockKey }
func (a *Appointment) Module() *int            { return a.module }
func (a *Appointment) Outcome() *Outcome       { return a.outcome }
func (a *Appointment) Comment() *string        { return a.comment }
func (a *Appointment) AgentID() *string        { return a.agentID }
func (a *Appointment) AttentionEnd() *time.Time { return a.attentionEnd }
func (a *Appointment) ReopenedAt() *time.Time  { return a.reopenedAt }
func (a *Appointment) ClosedReason() *string   { return a.closedReason }
func (a *Appointment) ClosedBy() *string       { return a.closedBy }
func (a *Appointment) CreatedAt() time.Time    { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time    { return a.updatedAt }
