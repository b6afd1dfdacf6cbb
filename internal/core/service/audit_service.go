package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/listado/marketplace-api/internal/api/metrics"
	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) for audit events.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, listingID, state string, ts time.Time) (bool, error)
	Mark(ctx context.Context, listingID, state string, ts time.Time) error
}

type auditService struct {
	repo  ports.AuditRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, dedup DedupChecker, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single moderation event.
func (s *auditService) Process(ctx context.Context, in ports.ModerationEventInput) error {
	// Idempotency check — silently skip duplicates (dispatcher retries,
	// redelivered transitions).
	isDup, err := s.dedup.IsDuplicate(ctx, in.ListingID, in.To, in.Timestamp)
	switch {
	case err != nil:
		metrics.AuditDedupTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("listing_id", in.ListingID).Msg("dedup check failed, processing anyway")
	case isDup:
		metrics.AuditDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("listing_id", in.ListingID).Str("to", in.To).Msg("duplicate audit event skipped")
		return nil
	default:
		metrics.AuditDedupTotal.WithLabelValues("miss").Inc()
	}

	// Mark before writing so a retry cannot double-insert.
	if markErr := s.dedup.Mark(ctx, in.ListingID, in.To, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("listing_id", in.ListingID).Msg("failed to set dedup key")
	}

	event := &domain.ModerationEvent{
		ListingID: in.ListingID,
		From:      domain.PublicationState(in.From),
		To:        domain.PublicationState(in.To),
		ActorID:   in.ActorID,
		ActorRole: domain.Role(in.ActorRole),
		Timestamp: in.Timestamp,
		Notes:     in.Notes,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("process audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("ok").Inc()
	s.log.Info().
		Str("listing_id", in.ListingID).
		Str("from", in.From).
		Str("to", in.To).
		Str("actor_id", in.ActorID).
		Msg("moderation event recorded")

	return nil
}
