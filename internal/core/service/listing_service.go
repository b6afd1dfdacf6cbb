package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/listado/marketplace-api/internal/api/metrics"
	"github.com/listado/marketplace-api/internal/core/authz"
	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AuditEnqueuer abstracts the async audit pipeline (the sharded
// dispatcher). Nil disables auditing, used in tests.
type AuditEnqueuer interface {
	Enqueue(event ports.ModerationEventInput)
}

type ListingService struct {
	repo   ports.ListingRepository
	audit  AuditEnqueuer
	logger zerolog.Logger
}

func NewListingService(repo ports.ListingRepository, audit AuditEnqueuer, logger zerolog.Logger) *ListingService {
	return &ListingService{repo: repo, audit: audit, logger: logger}
}

// Create creates a new listing owned by the caller. Every listing starts
// pending; only an admin may request immediate publication via the
// explicit creation-time flag.
func (s *ListingService) Create(ctx context.Context, input ports.CreateListingInput) (*ports.ListingDetail, error) {
	outcome := authz.Decide(authz.Request{Identity: input.Identity, Action: authz.ActionCreateListing})
	metrics.ObserveDecision(authz.ActionCreateListing, outcome)
	if !outcome.Allowed {
		return nil, outcome.Reason.Err()
	}

	now := time.Now().UTC()
	state := authz.InitialState(input.Identity.Role, input.PublishImmediately)
	listing := &domain.Listing{
		ID:          generateListingID(),
		OwnerID:     input.Identity.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Currency:    input.Currency,
		State:       state,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		StateHistory: []domain.StateHistoryEntry{
			{State: state, Timestamp: now, ActorID: input.Identity.ID},
		},
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.Identity.ID).Msg("failed to create listing")
		return nil, err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(string(state)).Inc()
	s.logger.Info().
		Str("listing_id", listing.ID).
		Str("owner_id", listing.OwnerID).
		Str("state", string(state)).
		Msg("listing created")

	return toDetail(listing), nil
}

// Get retrieves a single listing. Published listings are visible to anyone
// including anonymous callers; everything else only to its owner or an
// admin. Unpublished content is reported as absent to callers who could
// not have known it exists.
func (s *ListingService) Get(ctx context.Context, input ports.GetListingInput) (*ports.ListingDetail, error) {
	listing, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if listing.State != domain.StatePublished {
		switch {
		case input.Identity.Role == domain.RoleAdmin:
		case input.Identity.Role == domain.RoleModerator && authz.Owns(input.Identity, listing.OwnerID):
		case input.Identity.Role == domain.RoleModerator:
			return nil, domain.ErrNotOwner
		default:
			return nil, domain.ErrListingNotFound
		}
	}

	return toDetail(listing), nil
}

// ListPublic returns a page of published listings for the public browse
// endpoint. The state filter is forced, never caller-controlled.
func (s *ListingService) ListPublic(ctx context.Context, input ports.ListPublicInput) (*ports.ListListingsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	items, total, err := s.repo.List(ctx, ports.ListListingsFilter{
		State:    string(domain.StatePublished),
		Category: input.Category,
		Search:   input.Search,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return toListResult(items, total, page, limit), nil
}

// ListForModeration returns the moderation dashboard page. Moderators are
// scoped to their own submissions via a repository filter; admins see all.
// One code path, the scope is the only difference.
func (s *ListingService) ListForModeration(ctx context.Context, input ports.ListModerationInput) (*ports.ListListingsResult, error) {
	filter := ports.ListListingsFilter{State: input.State}

	if d := authz.Evaluate(input.Identity.Role, authz.ActionViewAllListings, ""); !d.Allowed {
		if d = authz.Evaluate(input.Identity.Role, authz.ActionViewOwnListings, ""); !d.Allowed {
			return nil, d.Reason.Err()
		}
		filter.OwnerID = input.Identity.ID
	}

	page, limit := normalizePage(input.Page, input.Limit)
	filter.Page, filter.Limit = page, limit

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toListResult(items, total, page, limit), nil
}

// Update edits a listing through the decision orchestrator. Fields the
// caller may not touch are stripped from the change-set; the write is
// conditional on the version read with the snapshot.
func (s *ListingService) Update(ctx context.Context, input ports.UpdateListingInput) (*ports.ListingDetail, error) {
	listing, err := s.findForDecision(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	outcome := authz.Decide(authz.Request{
		Identity: input.Identity,
		Action:   authz.ActionEditListing,
		Listing:  listing,
		Changes:  input.Changes,
	})
	metrics.ObserveDecision(authz.ActionEditListing, outcome)
	if !outcome.Allowed {
		return nil, outcome.Reason.Err()
	}

	now := time.Now().UTC()
	var history *domain.StateHistoryEntry
	if outcome.Changes.State != nil {
		history = &domain.StateHistoryEntry{
			State:     *outcome.Changes.State,
			Timestamp: now,
			ActorID:   input.Identity.ID,
		}
	}

	if err := s.repo.Update(ctx, listing.ID, listing.Version, outcome.Changes, history); err != nil {
		return nil, err
	}

	if outcome.Changes.State != nil {
		s.recordTransition(listing, *outcome.Changes.State, input.Identity, now, "")
	}

	s.logger.Info().Str("listing_id", listing.ID).Str("actor_id", input.Identity.ID).Msg("listing updated")
	return s.detailAfterWrite(ctx, listing.ID, listing, outcome.Changes, history)
}

// Delete removes a listing. Moderators may only delete their own.
func (s *ListingService) Delete(ctx context.Context, input ports.DeleteListingInput) error {
	listing, err := s.findForDecision(ctx, input.ID)
	if err != nil {
		return err
	}

	outcome := authz.Decide(authz.Request{
		Identity: input.Identity,
		Action:   authz.ActionDeleteListing,
		Listing:  listing,
	})
	metrics.ObserveDecision(authz.ActionDeleteListing, outcome)
	if !outcome.Allowed {
		return outcome.Reason.Err()
	}

	if err := s.repo.Delete(ctx, listing.ID); err != nil {
		return err
	}

	s.logger.Info().Str("listing_id", listing.ID).Str("actor_id", input.Identity.ID).Msg("listing deleted")
	return nil
}

// SetPublicationState applies a publication state transition. The role
// policy and the state machine must both agree; the write is conditional
// on the snapshot version so concurrent moderation decisions cannot race
// each other onto stale state.
func (s *ListingService) SetPublicationState(ctx context.Context, input ports.SetPublicationStateInput) (*ports.ListingDetail, error) {
	if !input.Target.IsValid() {
		return nil, domain.ErrInvalidTransition
	}

	listing, err := s.findForDecision(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	outcome := authz.Decide(authz.Request{
		Identity: input.Identity,
		Action:   authz.ActionSetPublicationState,
		Listing:  listing,
		Target:   input.Target,
	})
	metrics.ObserveDecision(authz.ActionSetPublicationState, outcome)
	if !outcome.Allowed {
		return nil, outcome.Reason.Err()
	}

	now := time.Now().UTC()
	history := &domain.StateHistoryEntry{
		State:     input.Target,
		Timestamp: now,
		ActorID:   input.Identity.ID,
		Notes:     input.Notes,
	}

	if err := s.repo.Update(ctx, listing.ID, listing.Version, outcome.Changes, history); err != nil {
		return nil, err
	}

	s.recordTransition(listing, input.Target, input.Identity, now, input.Notes)
	s.logger.Info().
		Str("listing_id", listing.ID).
		Str("from", string(listing.State)).
		Str("to", string(input.Target)).
		Str("actor_id", input.Identity.ID).
		Msg("publication state changed")

	return s.detailAfterWrite(ctx, listing.ID, listing, outcome.Changes, history)
}

// SetFeatured flips the featured flag; its own gate, separate from the
// publication lifecycle.
func (s *ListingService) SetFeatured(ctx context.Context, input ports.SetFeaturedInput) (*ports.ListingDetail, error) {
	listing, err := s.findForDecision(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	featured := input.Featured
	outcome := authz.Decide(authz.Request{
		Identity: input.Identity,
		Action:   authz.ActionSetFeatured,
		Listing:  listing,
		Changes:  authz.ChangeSet{Featured: &featured},
	})
	metrics.ObserveDecision(authz.ActionSetFeatured, outcome)
	if !outcome.Allowed {
		return nil, outcome.Reason.Err()
	}

	if err := s.repo.Update(ctx, listing.ID, listing.Version, outcome.Changes, nil); err != nil {
		return nil, err
	}

	s.logger.Info().Str("listing_id", listing.ID).Bool("featured", featured).Msg("featured flag set")
	return s.detailAfterWrite(ctx, listing.ID, listing, outcome.Changes, nil)
}

// findForDecision loads the snapshot the orchestrator decides against.
// A lookup miss surfaces as NotFound before any role check runs.
func (s *ListingService) findForDecision(ctx context.Context, id string) (*domain.Listing, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ListingService) recordTransition(listing *domain.Listing, to domain.PublicationState, identity domain.Identity, ts time.Time, notes string) {
	metrics.ModerationTransitionsTotal.WithLabelValues(string(listing.State), string(to)).Inc()
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.ModerationEventInput{
		ListingID: listing.ID,
		From:      string(listing.State),
		To:        string(to),
		ActorID:   identity.ID,
		ActorRole: string(identity.Role),
		Timestamp: ts,
		Notes:     notes,
	})
}

// detailAfterWrite re-reads the listing so the response reflects the
// persisted document; when the re-read races a delete it falls back to the
// snapshot with the changes applied locally.
func (s *ListingService) detailAfterWrite(ctx context.Context, id string, snapshot *domain.Listing, changes authz.ChangeSet, history *domain.StateHistoryEntry) (*ports.ListingDetail, error) {
	fresh, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return toDetail(fresh), nil
	}

	applied := *snapshot
	applyChanges(&applied, changes)
	applied.Version++
	if history != nil {
		applied.StateHistory = append(applied.StateHistory, *history)
	}
	return toDetail(&applied), nil
}

func applyChanges(l *domain.Listing, c authz.ChangeSet) {
	if c.Title != nil {
		l.Title = *c.Title
	}
	if c.Description != nil {
		l.Description = *c.Description
	}
	if c.Category != nil {
		l.Category = *c.Category
	}
	if c.Price != nil {
		l.Price = *c.Price
	}
	if c.Currency != nil {
		l.Currency = *c.Currency
	}
	if c.Featured != nil {
		l.Featured = *c.Featured
	}
	if c.State != nil {
		l.State = *c.State
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func toDetail(l *domain.Listing) *ports.ListingDetail {
	history := make([]ports.StateHistoryItem, 0, len(l.StateHistory))
	for _, h := range l.StateHistory {
		history = append(history, ports.StateHistoryItem{
			State:     string(h.State),
			Timestamp: h.Timestamp,
			ActorID:   h.ActorID,
			Notes:     h.Notes,
		})
	}
	return &ports.ListingDetail{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Title:        l.Title,
		Description:  l.Description,
		Category:     l.Category,
		Price:        l.Price,
		Currency:     l.Currency,
		State:        string(l.State),
		Featured:     l.Featured,
		Version:      l.Version,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
		StateHistory: history,
	}
}

func toListResult(items []*domain.Listing, total int64, page, limit int) *ports.ListListingsResult {
	summaries := make([]ports.ListingSummary, 0, len(items))
	for _, l := range items {
		summaries = append(summaries, ports.ListingSummary{
			ID:        l.ID,
			OwnerID:   l.OwnerID,
			Title:     l.Title,
			Category:  l.Category,
			Price:     l.Price,
			Currency:  l.Currency,
			State:     string(l.State),
			Featured:  l.Featured,
			CreatedAt: l.CreatedAt,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListListingsResult{
		Items:      summaries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// generateListingID returns a unique listing id in the format LST-XXXXXXXX.
func generateListingID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("LST-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("LST-%08X", b)
}
