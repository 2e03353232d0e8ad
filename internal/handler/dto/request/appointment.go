package request

import "github.com/google/uuid"

type BookAppointmentRequest struct {
	CitizenID   string    `json:"citizen_id" binding:"required"`
	ProcedureID uuid.UUID `json:"procedure_id" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	Name        string    `json:"name"`
	Email       string    `json:"email" binding:"omitempty,email"`
	Phone       string    `json:"phone"`
}

type CallRequest struct {
	Module int `json:"module" binding:"required,min=1"`
}
