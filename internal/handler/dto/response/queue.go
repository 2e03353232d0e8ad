package response

import (
	"time"

	"consular-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

type QueueEntryResponse struct {
	Kind          string    `json:"kind"`
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	CitizenID     string    `json:"citizen_id"`
	ProcedureID   uuid.UUID `json:"procedure_id"`
	ProcedureName string    `json:"procedure_name"`
	At            time.Time `json:"at"`
}

func FromQueueEntry(e queries.QueueEntry) QueueEntryResponse {
	return QueueEntryResponse{
		Kind:          e.Kind,
		ID:            e.ID,
		Code:          e.Code,
		CitizenID:     e.CitizenID,
		ProcedureID:   e.ProcedureID,
		ProcedureName: e.ProcedureName,
		At:            e.At,
	}
}

func FromQueueEntries(entries []queries.QueueEntry) []QueueEntryResponse {
	out := make([]QueueEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = FromQueueEntry(e)
	}
	return out
}
