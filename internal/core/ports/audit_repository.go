package ports

import (
	"context"

	"github.com/listado/marketplace-api/internal/core/domain"
)

// AuditRepository persists the moderation audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.ModerationEvent) error
	// ListByListing returns the most recent events for one listing, newest
	// first.
	ListByListing(ctx context.Context, listingID string, limit int) ([]*domain.ModerationEvent, error)
}
