package ticket

import (
	"errors"
	"strings"
	"time"

	"consular-queue/internal/domain/appointment"

	"github.com/google/uuid"
)

var (
	ErrEmptyCitizenID    = errors.New("citizen id cannot be empty")
	ErrInvalidTransition = errors.New("illegal ticket transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCalled    Status = "called"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusCalled, StatusCompleted},
	StatusCalled:  {StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Ticket is a same-day walk-in: no time slot, ordered purely by its
// kiosk sequence. The module field name differs from appointments
// (moduleDesk / module_desk) and that split is preserved on the wire.
type Ticket struct {
	id          uuid.UUID
	citizenID   string
	procedureID uuid.UUID
	code        string
	status      Status

	moduleDesk   *int
	outcome      *appointment.Outcome
	comment      *string
	agentID      *string
	attentionEnd *time.Time

	createdAt time.Time
	updatedAt time.Time
}

func NewTicket(citizenID string, procedureID uuid.UUID, code string, now time.Time) (*Ticket, error) {
	citizenID = strings.TrimSpace(citizenID)
	if citizenID == "" {
		return nil, ErrEmptyCitizenID
	}
	return &Ticket{
		id:          uuid.New(),
		citizenID:   citizenID,
		procedureID: procedureID,
		code:        code,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	citizenID string,
	procedureID uuid.UUID,
	code string,
	status Status,
	moduleDesk *int,
	outcome *appointment.Outcome,
	comment, agentID *string,
	attentionEnd *time.Time,
	createdAt, updatedAt time.Time,
) *Ticket {
	return &Ticket{
		id:           id,
		citizenID:    citizenID,
		procedureID:  procedureID,
		code:         code,
		status:       status,
		moduleDesk:   moduleDesk,
		outcome:      outcome,
		comment:      comment,
		agentID:      agentID,
		attentionEnd: attentionEnd,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (t *Ticket) Call(moduleDesk int, now time.Time) error {
	if !t.status.CanTransitionTo(StatusCalled) {
		return ErrInvalidTransition
	}
	t.status = StatusCalled
	t.moduleDesk = &moduleDesk
	t.updatedAt = now
	return nil
}

func (t *Ticket) Finish(outcome appointment.Outcome, comment, agentID string, now time.Time) error {
	if !t.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	t.status = StatusCompleted
	t.outcome = &outcome
	if comment != "" {
		t.comment = &comment
	}
	if agentID != "" {
		t.agentID = &agentID
	}
	end := now
	t.attentionEnd = &end
	t.updatedAt = now
	return nil
}

func (t *Ticket) ID() uuid.UUID                  { return t.id }
func (t *Ticket) CitizenID() string              { return t.citizenID }
func (t *Ticket) ProcedureID() uuid.UUID         { return t.procedureID }
func (t *Ticket) Code() string                   { return t.code }
func (t *Ticket) Status() Status                 { return t.status }
func (t *Ticket) ModuleDesk() *int               { return t.moduleDesk }
func (t *Ticket) Outcome() *appointment.Outcome  { return t.outcome }
func (t *Ticket) Comment() *string               { return t.comment }
func (t *Ticket) AgentID() *string               { return t.agentID }
func (t *Ticket) AttentionEnd() *time.Time       { return t.attentionEnd }
func (t *Ticket) CreatedAt() time.Time           { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time           { return t.updatedAt }
