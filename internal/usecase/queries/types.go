package queries

import (
	"time"

	"github.com/google/uuid"
)

type ProcedureView struct {
	ID          uuid.UUID
	Name        string
	Prefix      string
	DurationMin int
}

type AppointmentView struct {
	ID            uuid.UUID
	CitizenID     string
	CitizenName   string
	ProcedureID   uuid.UUID
	ProcedureName string
	ScheduledAt   time.Time
	Code          string
	Status        string
	Module        *int
	Outcome       *string
	Comment       *string
	AgentID       *string
	AttentionEnd  *time.Time
	CreatedAt     time.Time
}

type TicketView struct {
	ID            uuid.UUID
	CitizenID     string
	ProcedureID   uuid.UUID
	ProcedureName string
	Code          string
	Status        string
	ModuleDesk    *int
	Outcome       *string
	CreatedAt     time.Time
}

// QueueEntry is one callable item in the merged agent queue.
type QueueEntry struct {
	Kind          string // "appointment" or "ticket"
	ID            uuid.UUID
	Code          string
	CitizenID     string
	ProcedureID   uuid.UUID
	ProcedureName string
	// At is the scheduled instant for appointments and the generation
	// instant for tickets; ordering key within each class.
	At time.Time
}

const (
	QueueKindAppointment = "appointment"
	QueueKindTicket      = "ticket"
)
