package response

import (
	"time"

	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

type TicketCreatedResponse struct {
	TicketID uuid.UUID `json:"ticket_id"`
	Code     string    `json:"code"`
}

func FromTicketResult(r *commands.TicketResult) *TicketCreatedResponse {
	return &TicketCreatedResponse{TicketID: r.TicketID, Code: r.Code}
}

type TicketResponse struct {
	ID            uuid.UUID `json:"id"`
	CitizenID     string    `json:"citizen_id"`
	ProcedureID   uuid.UUID `json:"procedure_id"`
	ProcedureName string    `json:"procedure_name"`
	Code          string    `json:"code"`
	Status        string    `json:"status"`
	ModuleDesk    *int      `json:"module_desk,omitempty"`
	Outcome       *string   `json:"outcome,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromTicketView(v *queries.TicketView) *TicketResponse {
	return &TicketResponse{
		ID:            v.ID,
		CitizenID:     v.CitizenID,
		ProcedureID:   v.ProcedureID,
		ProcedureName: v.ProcedureName,
		Code:          v.Code,
		Status:        v.Status,
		ModuleDesk:    v.ModuleDesk,
		Outcome:       v.Outcome,
		CreatedAt:     v.CreatedAt,
	}
}
