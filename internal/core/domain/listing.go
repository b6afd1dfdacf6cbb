package domain

import (
	"errors"
	"time"
)

// PublicationState is the single lifecycle state of a listing. It replaces
// any approved/featured boolean pair: exactly one value at any time.
type PublicationState string

const (
	StatePending     PublicationState = "pending"
	StatePublished   PublicationState = "published"
	StateRejected    PublicationState = "rejected"
	StateUnpublished PublicationState = "unpublished"
)

// validTransitions defines the legal publication state machine transitions.
// Rejected is terminal: a rejected listing is re-submitted as a new listing,
// never flipped back. Unpublished re-enters pending only by an explicit
// re-submission, never automatically.
var validTransitions = map[PublicationState][]PublicationState{
	StatePending:     {StatePublished, StateRejected},
	StatePublished:   {StateUnpublished},
	StateUnpublished: {StatePending},
}

var ErrListingNotFound = errors.New("listing not found")
var ErrInvalidTransition = errors.New("invalid publication state transition")
var ErrConcurrentModification = errors.New("listing modified concurrently")

// CanTransitionTo reports whether moving from state s to next is legal,
// independent of who requests it. Role checks live in the authz package;
// both must agree before a transition is applied.
func (s PublicationState) CanTransitionTo(next PublicationState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the four known states.
func (s PublicationState) IsValid() bool {
	switch s {
	case StatePending, StatePublished, StateRejected, StateUnpublished:
		return true
	}
	return false
}

// StateHistoryEntry records a single publication state change on a listing.
type StateHistoryEntry struct {
	State     PublicationState `json:"state" bson:"state"`
	Timestamp time.Time        `json:"timestamp" bson:"timestamp"`
	ActorID   string           `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Notes     string           `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Listing is the core aggregate root. OwnerID is set once at creation and
// never reassigned. Version is the optimistic concurrency token: every
// state-changing write is conditional on it.
type Listing struct {
	ID           string             `json:"id" bson:"_id,omitempty"`
	OwnerID      string             `json:"owner_id" bson:"owner_id"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Category     string             `json:"category" bson:"category"`
	Price        float64            `json:"price" bson:"price"`
	Currency     string             `json:"currency" bson:"currency"`
	State        PublicationState   `json:"state" bson:"state"`
	Featured     bool               `json:"featured" bson:"featured"`
	Version      int64              `json:"version" bson:"version"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
	StateHistory []StateHistoryEntry `json:"state_history" bson:"state_history"`
}
