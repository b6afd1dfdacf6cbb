package ports

import (
	"context"

	"github.com/listado/marketplace-api/internal/core/authz"
	"github.com/listado/marketplace-api/internal/core/domain"
)

// ListListingsFilter carries all query parameters for listing pages.
// OwnerID scoping is decided by the service layer: moderators are scoped to
// their own submissions, admins and the public browse are not.
type ListListingsFilter struct {
	OwnerID  string // empty = no owner scope; non-empty = scoped to owner
	State    string // optional: filter by publication state
	Category string // optional: filter by category
	Search   string // optional: partial match on title
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by service)
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	// List returns a page of listings matching filter and the total count.
	List(ctx context.Context, filter ListListingsFilter) ([]*domain.Listing, int64, error)
	// Update applies a sanitized change-set conditional on the stored
	// version still matching expectedVersion, and increments the version.
	// history, when non-nil, is appended to the state history in the same
	// write. Returns domain.ErrConcurrentModification when the version is
	// stale and domain.ErrListingNotFound when the listing is gone.
	Update(ctx context.Context, id string, expectedVersion int64, changes authz.ChangeSet, history *domain.StateHistoryEntry) error
	Delete(ctx context.Context, id string) error
}
