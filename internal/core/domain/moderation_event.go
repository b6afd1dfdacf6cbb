package domain

import "time"

// ModerationEvent records a single publication state transition in the
// audit trail: what moved, where, and which identity triggered it.
type ModerationEvent struct {
	ListingID string
	From      PublicationState
	To        PublicationState
	ActorID   string
	ActorRole Role
	Timestamp time.Time
	Notes     string
}
