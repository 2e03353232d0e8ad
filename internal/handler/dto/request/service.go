package request

import "github.com/google/uuid"

// FinishServiceRequest closes either an appointment or a walk-in
// ticket; kind selects the lifecycle.
type FinishServiceRequest struct {
	Kind    string    `json:"kind" binding:"required,oneof=appointment ticket"`
	ID      uuid.UUID `json:"id" binding:"required"`
	Outcome string    `json:"outcome" binding:"required"`
	Comment string    `json:"comment"`
}

type CloseDayRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}
