package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/listado/marketplace-api/internal/core/domain"
	"github.com/listado/marketplace-api/internal/core/ports"
)

const collectionModerationEvents = "moderation_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// InsertEvent persists a moderation event to the audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.ModerationEvent) error {
	doc := bson.M{
		"listing_id":   event.ListingID,
		"from":         string(event.From),
		"to":           string(event.To),
		"actor_id":     event.ActorID,
		"actor_role":   string(event.ActorRole),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.Notes != "" {
		doc["notes"] = event.Notes
	}

	_, err := r.db.Collection(collectionModerationEvents).InsertOne(ctx, doc)
	return err
}

// ListByListing returns the most recent moderation events for one listing,
// newest first.
func (r *AuditRepository) ListByListing(ctx context.Context, listingID string, limit int) ([]*domain.ModerationEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(collectionModerationEvents).Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ListingID string    `bson:"listing_id"`
		From      string    `bson:"from"`
		To        string    `bson:"to"`
		ActorID   string    `bson:"actor_id"`
		ActorRole string    `bson:"actor_role"`
		Timestamp time.Time `bson:"timestamp"`
		Notes     string    `bson:"notes"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]*domain.ModerationEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, &domain.ModerationEvent{
			ListingID: d.ListingID,
			From:      domain.PublicationState(d.From),
			To:        domain.PublicationState(d.To),
			ActorID:   d.ActorID,
			ActorRole: domain.Role(d.ActorRole),
			Timestamp: d.Timestamp,
			Notes:     d.Notes,
		})
	}
	return events, nil
}

// EnsureIndexes creates necessary indexes on the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.db.Collection(collectionModerationEvents).Indexes().CreateMany(ctx, indexes)
	return err
}
