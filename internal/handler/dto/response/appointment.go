package response

import (
	"time"

	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Code          string    `json:"code"`
}

func FromBookingResult(r *commands.BookingResult) *BookingResponse {
	return &BookingResponse{AppointmentID: r.AppointmentID, Code: r.Code}
}

type AppointmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	CitizenID     string     `json:"citizen_id"`
	CitizenName   string     `json:"citizen_name,omitempty"`
	ProcedureID   uuid.UUID  `json:"procedure_id"`
	ProcedureName string     `json:"procedure_name"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	Code          string     `json:"code"`
	Status        string     `json:"status"`
	Module        *int       `json:"module,omitempty"`
	Outcome       *string    `json:"outcome,omitempty"`
	Comment       *string    `json:"comment,omitempty"`
	AgentID       *string    `json:"agent_id,omitempty"`
	AttentionEnd  *time.Time `json:"attention_end,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	return &AppointmentResponse{
		ID:            v.ID,
		CitizenID:     v.CitizenID,
		CitizenName:   v.CitizenName,
		ProcedureID:   v.ProcedureID,
		ProcedureName: v.ProcedureName,
		ScheduledAt:   v.ScheduledAt,
		Code:          v.Code,
		Status:        v.Status,
		Module:        v.Module,
		Outcome:       v.Outcome,
		Comment:       v.Comment,
		AgentID:       v.AgentID,
		AttentionEnd:  v.AttentionEnd,
		CreatedAt:     v.CreatedAt,
	}
}

type DuplicateCheckResponse struct {
	Duplicate bool `json:"duplicate"`
}

type ReopenResponse struct {
	ID             uuid.UUID `json:"id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
}
