package ports

import (
	"context"
	"time"

	"github.com/listado/marketplace-api/internal/core/authz"
	"github.com/listado/marketplace-api/internal/core/domain"
)

// CreateListingInput carries all data needed to create a new listing.
// PublishImmediately is honoured only for admin identities; everyone else
// starts pending.
type CreateListingInput struct {
	Identity           domain.Identity
	Title              string
	Description        string
	Category           string
	Price              float64
	Currency           string
	PublishImmediately bool
}

// GetListingInput carries the parameters to retrieve a single listing.
// A zero Identity means an anonymous (public) caller.
type GetListingInput struct {
	ID       string
	Identity domain.Identity
}

// UpdateListingInput carries an edit request. The change-set is sanitized
// by the decision orchestrator before anything is written.
type UpdateListingInput struct {
	Identity domain.Identity
	ID       string
	Changes  authz.ChangeSet
}

// SetPublicationStateInput requests a publication state transition.
type SetPublicationStateInput struct {
	Identity domain.Identity
	ID       string
	Target   domain.PublicationState
	Notes    string
}

// SetFeaturedInput flips the featured flag on a listing.
type SetFeaturedInput struct {
	Identity domain.Identity
	ID       string
	Featured bool
}

// DeleteListingInput removes a listing.
type DeleteListingInput struct {
	Identity domain.Identity
	ID       string
}

// ListPublicInput carries query parameters for the public browse endpoint.
// Only published listings are ever returned.
type ListPublicInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListModerationInput carries query parameters for the moderation
// dashboard. Scoping follows the caller's role: moderators see their own
// submissions in every state, admins see everything.
type ListModerationInput struct {
	Identity domain.Identity
	State    string
	Page     int
	Limit    int
}

// StateHistoryItem is a single entry in a listing's publication history.
type StateHistoryItem struct {
	State     string
	Timestamp time.Time
	ActorID   string
	Notes     string
}

// ListingDetail is the full listing view returned by single-listing
// operations.
type ListingDetail struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	Category     string
	Price        float64
	Currency     string
	State        string
	Featured     bool
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StateHistory []StateHistoryItem
}

// ListingSummary is the lightweight view used in list responses (no state
// history).
type ListingSummary struct {
	ID        string
	OwnerID   string
	Title     string
	Category  string
	Price     float64
	Currency  string
	State     string
	Featured  bool
	CreatedAt time.Time
}

// ListListingsResult is returned by both list operations.
type ListListingsResult struct {
	Items      []ListingSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListingService defines the use-case operations for listings. Every
// mutating operation routes through the decision orchestrator.
type ListingService interface {
	Create(ctx context.Context, input CreateListingInput) (*ListingDetail, error)
	Get(ctx context.Context, input GetListingInput) (*ListingDetail, error)
	ListPublic(ctx context.Context, input ListPublicInput) (*ListListingsResult, error)
	ListForModeration(ctx context.Context, input ListModerationInput) (*ListListingsResult, error)
	Update(ctx context.Context, input UpdateListingInput) (*ListingDetail, error)
	Delete(ctx context.Context, input DeleteListingInput) error
	SetPublicationState(ctx context.Context, input SetPublicationStateInput) (*ListingDetail, error)
	SetFeatured(ctx context.Context, input SetFeaturedInput) (*ListingDetail, error)
}
