package handler

import (
	"github.com/listado/marketplace-api/internal/core/authz"
	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

// --- Request → Service input ---

func toChangeSet(req updateListingRequest) authz.ChangeSet {
	cs := authz.ChangeSet{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Currency:    req.Currency,
		Featured:    req.Featured,
	}
	if req.State != nil {
		state := domain.PublicationState(*req.State)
		cs.State = &state
	}
	return cs
}

// --- Service result → HTTP response ---

func toListingResponse(d *ports.ListingDetail) listingResponse {
	history := make([]stateHistoryItemResponse, len(d.StateHistory))
	for i, item := range d.StateHistory {
		history[i] = stateHistoryItemResponse{
			State:     item.State,
			Timestamp: item.Timestamp.UTC(),
			ActorID:   item.ActorID,
			Notes:     item.Notes,
		}
	}
	return listingResponse{
		ID:           d.ID,
		OwnerID:      d.OwnerID,
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Price:        d.Price,
		Currency:     d.Currency,
		State:        d.State,
		Featured:     d.Featured,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		StateHistory: history,
		Links:        listingLinks{Self: "/v1/listings/" + d.ID},
	}
}

func toListResponse(r *ports.ListListingsResult) listListingsResponse {
	items := make([]listingSummaryResponse, len(r.Items))
	for i, s := range r.Items {
		items[i] = listingSummaryResponse{
			ID:        s.ID,
			OwnerID:   s.OwnerID,
			Title:     s.Title,
			Category:  s.Category,
			Price:     s.Price,
			Currency:  s.Currency,
			State:     s.State,
			Featured:  s.Featured,
			CreatedAt: s.CreatedAt.UTC(),
			Links:     listingLinks{Self: "/v1/listings/" + s.ID},
		}
	}
	return listListingsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toEventResponses(events []*domain.ModerationEvent) []moderationEventResponse {
	out := make([]moderationEventResponse, len(events))
	for i, e := range events {
		out[i] = moderationEventResponse{
			ListingID: e.ListingID,
			From:      string(e.From),
			To:        string(e.To),
			ActorID:   e.ActorID,
			ActorRole: string(e.ActorRole),
			Timestamp: e.Timestamp.UTC(),
			Notes:     e.Notes,
		}
	}
	return out
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.UTC(),
	}
}
