package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createListingRequest struct {
	Title              string  `json:"title"       validate:"required,max=200"`
	Description        string  `json:"description" validate:"required,max=5000"`
	Category           string  `json:"category"    validate:"required"`
	Price              float64 `json:"price"       validate:"required,gt=0"`
	Currency           string  `json:"currency"    validate:"required,len=3"`
	PublishImmediately bool    `json:"publish_immediately"`
}

// updateListingRequest uses pointers throughout: absent fields mean "leave
// unchanged", and fields the caller's role may not touch are stripped by
// the orchestrator rather than rejected.
type updateListingRequest struct {
	Title       *string  `json:"title"       validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Category    *string  `json:"category"    validate:"omitempty"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Currency    *string  `json:"currency"    validate:"omitempty,len=3"`
	Featured    *bool    `json:"featured"`
	State       *string  `json:"state"       validate:"omitempty,oneof=pending published rejected unpublished"`
}

type setPublicationStateRequest struct {
	State string `json:"state" validate:"required,oneof=pending published rejected unpublished"`
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// --- Response types ---
// Intentionally separate from ports/domain types so the JSON contract is
// not coupled to internal service changes.

type listingLinks struct {
	Self string `json:"self"`
}

type stateHistoryItemResponse struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type listingResponse struct {
	ID           string                     `json:"id"`
	OwnerID      string                     `json:"owner_id"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Category     string                     `json:"category"`
	Price        float64                    `json:"price"`
	Currency     string                     `json:"currency"`
	State        string                     `json:"state"`
	Featured     bool                       `json:"featured"`
	Version      int64                      `json:"version"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	StateHistory []stateHistoryItemResponse `json:"state_history"`
	Links        listingLinks               `json:"_links"`
}

// listingSummaryResponse is the lightweight item used in list responses.
// It intentionally omits state_history to keep payloads small.
type listingSummaryResponse struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Title     string       `json:"title"`
	Category  string       `json:"category"`
	Price     float64      `json:"price"`
	Currency  string       `json:"currency"`
	State     string       `json:"state"`
	Featured  bool         `json:"featured"`
	CreatedAt time.Time    `json:"created_at"`
	Links     listingLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listListingsResponse struct {
	Data       []listingSummaryResponse `json:"data"`
	Pagination paginationResponse       `json:"pagination"`
}

type moderationEventResponse struct {
	ListingID string    `json:"listing_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
