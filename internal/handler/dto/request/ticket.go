package request

import "github.com/google/uuid"

type CreateTicketRequest struct {
	CitizenID   string    `json:"citizen_id" binding:"required"`
	ProcedureID uuid.UUID `json:"procedure_id" binding:"required"`
}
