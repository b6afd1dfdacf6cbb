package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/listado/marketplace-api/internal/api/metrics"
	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

type stubAuditRepo struct {
	events    []*domain.ModerationEvent
	insertErr error
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.ModerationEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *e
	r.events = append(r.events, &clone)
	return nil
}

func (r *stubAuditRepo) ListByListing(_ context.Context, listingID string, limit int) ([]*domain.ModerationEvent, error) {
	var out []*domain.ModerationEvent
	for _, e := range r.events {
		if e.ListingID == listingID {
			clone := *e
			out = append(out, &clone)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubDedup struct {
	seen     map[string]bool
	checkErr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (s *stubDedup) key(listingID, state string, ts time.Time) string {
	return fmt.Sprintf("%s:%s:%d", listingID, state, ts.Unix())
}

func (s *stubDedup) IsDuplicate(_ context.Context, listingID, state string, ts time.Time) (bool, error) {
	if s.checkErr != nil {
		return false, s.checkErr
	}
	return s.seen[s.key(listingID, state, ts)], nil
}

func (s *stubDedup) Mark(_ context.Context, listingID, state string, ts time.Time) error {
	s.seen[s.key(listingID, state, ts)] = true
	return nil
}

func sampleEvent(ts time.Time) ports.ModerationEventInput {
	return ports.ModerationEventInput{
		ListingID: "LST-00000001",
		From:      string(domain.StatePending),
		To:        string(domain.StatePublished),
		ActorID:   "adm_1",
		ActorRole: string(domain.RoleAdmin),
		Timestamp: ts,
	}
}

func TestAuditService_Process_PersistsEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, newStubDedup(), discardLogger)

	if err := svc.Process(context.Background(), sampleEvent(time.Now().UTC())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.From != domain.StatePending || e.To != domain.StatePublished {
		t.Errorf("stored transition wrong: %+v", e)
	}
	if e.ActorRole != domain.RoleAdmin {
		t.Errorf("stored actor role wrong: %q", e.ActorRole)
	}
}

func TestAuditService_Process_SkipsDuplicate(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, newStubDedup(), discardLogger)
	ts := time.Now().UTC()

	if err := svc.Process(context.Background(), sampleEvent(ts)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Process(context.Background(), sampleEvent(ts)); err != nil {
		t.Fatal(err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("redelivered event must be stored once, got %d", len(repo.events))
	}
}

func TestAuditService_Process_DedupFailureDoesNotBlock(t *testing.T) {
	repo := &stubAuditRepo{}
	dedup := newStubDedup()
	dedup.checkErr = errors.New("redis down")
	svc := NewAuditService(repo, dedup, discardLogger)

	errBefore := testutil.ToFloat64(metrics.AuditDedupTotal.WithLabelValues("error"))
	missBefore := testutil.ToFloat64(metrics.AuditDedupTotal.WithLabelValues("miss"))

	if err := svc.Process(context.Background(), sampleEvent(time.Now().UTC())); err != nil {
		t.Fatalf("dedup outage must not block persistence, got %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(repo.events))
	}

	// The outage counts as its own result; a failed check is not a miss.
	if got := testutil.ToFloat64(metrics.AuditDedupTotal.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("expected error counter %v, got %v", errBefore+1, got)
	}
	if got := testutil.ToFloat64(metrics.AuditDedupTotal.WithLabelValues("miss")); got != missBefore {
		t.Errorf("miss counter must not move on a failed check, got %v (was %v)", got, missBefore)
	}
}

func TestAuditService_Process_InsertError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("mongo down")}
	svc := NewAuditService(repo, newStubDedup(), discardLogger)

	if err := svc.Process(context.Background(), sampleEvent(time.Now().UTC())); err == nil {
		t.Fatal("expected error when insert fails, got nil")
	}
}
