// README: Buddy match decision record and pair state machine.
package decision

import (
	"errors"
	"time"

	"peloton/internal/types"
)

type Decision string

const (
	DecisionLike    Decision = "like"
	DecisionPass    Decision = "pass"
	DecisionPending Decision = "pending"
)

// Valid reports whether d is something a rider may submit. Pending is the
// stored default, never an input.
func (d Decision) Valid() bool {
	return d == DecisionLike || d == DecisionPass
}

var (
	ErrNotFound        = errors.New("match record not found")
	ErrInvalidDecision = errors.New("decision must be like or pass")
	ErrSelfDecision    = errors.New("cannot decide on yourself")
	ErrNotParticipant  = errors.New("rider is not part of this pair")
)

// Record tracks one unordered pair of riders and each side's decision.
type Record struct {
	ID            types.ID
	User1         types.ID
	User2         types.ID
	User1Decision Decision
	User2Decision Decision
	IsMatch       bool
	MatchScore    *float64
	ScheduledTime *time.Time
	CreatedAt     time.Time
}

// NewRecord opens a pair with both sides pending.
func NewRecord(a, b types.ID) *Record {
	return &Record{
		ID:            types.NewID(),
		User1:         a,
		User2:         b,
		User1Decision: DecisionPending,
		User2Decision: DecisionPending,
		CreatedAt:     time.Now(),
	}
}

// Apply stores actor's decision. A rider who already decided overwrites
// their previous answer. IsMatch is set once both sides like and is never
// cleared afterwards.
func (r *Record) Apply(actor types.ID, d Decision) error {
	switch actor {
	case r.User1:
		r.User1Decision = d
	case r.User2:
		r.User2Decision = d
	default:
		return ErrNotParticipant
	}
	if r.User1Decision == DecisionLike && r.User2Decision == DecisionLike {
		r.IsMatch = true
	}
	return nil
}

// Partner returns the other side of the pair.
func (r *Record) Partner(userID types.ID) types.ID {
	if r.User1 == userID {
		return r.User2
	}
	return r.User1
}
