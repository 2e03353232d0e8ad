package appointment

import "errors"

var (
	ErrInvalidTransition = errors.New("illegal lifecycle transition")
	ErrMissingOutcome    = errors.New("outcome classification is required")
	ErrUnknownOutcome    = errors.New("unknown outcome classification")
)

// Status is the explicit lifecycle state. Every mutating operation
// validates its transition here instead of inferring legality from
// field contents.
type Status string

const (
	StatusActive    Status = "active"
	StatusCalled    Status = "called"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusActive:    {StatusCalled, StatusCompleted},
	StatusCalled:    {StatusCompleted},
	StatusCompleted: {StatusActive},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsOpen() bool {
	return s == StatusActive || s == StatusCalled
}

// Outcome classifies how a service interaction ended.
type Outcome string

const (
	OutcomeServed     Outcome = "served"
	OutcomeReferred   Outcome = "referred"
	OutcomeNotPresent Outcome = "did_not_appear"
)

func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeServed, OutcomeReferred, OutcomeNotPresent:
		return Outcome(s), nil
	case "":
		return "", ErrMissingOutcome
	default:
		return "", ErrUnknownOutcome
	}
}
