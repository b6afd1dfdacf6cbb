package ports

import (
	"context"
	"time"
)

// ModerationEventInput is the DTO enqueued by the listing service after a
// successful publication state transition.
type ModerationEventInput struct {
	ListingID string
	From      string
	To        string
	ActorID   string
	ActorRole string
	Timestamp time.Time
	Notes     string
}

// AuditService processes moderation events into the audit trail.
type AuditService interface {
	Process(ctx context.Context, event ModerationEventInput) error
}
