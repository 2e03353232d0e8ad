package response

import (
	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProcedureResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Prefix      string    `json:"prefix"`
	DurationMin int       `json:"duration_min"`
}

func FromProcedureView(v *queries.ProcedureView) *ProcedureResponse {
	return &ProcedureResponse{ID: v.ID, Name: v.Name, Prefix: v.Prefix, DurationMin: v.DurationMin}
}

type AvailabilityResponse struct {
	ProcedureID uuid.UUID `json:"procedure_id"`
	Date        string    `json:"date"`
	Slots       []string  `json:"slots"`
	Closed      bool      `json:"closed"`
	ClosedFor   string    `json:"closed_for,omitempty"`
}

func FromDayAvailability(a *queries.DayAvailability) *AvailabilityResponse {
	return &AvailabilityResponse{
		ProcedureID: a.ProcedureID,
		Date:        a.Date,
		Slots:       a.Slots,
		Closed:      a.Closed,
		ClosedFor:   a.ClosedFor,
	}
}
