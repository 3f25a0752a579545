package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

const collectionArticleEvents = "article_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionArticleEvents)}
}

var _ ports.EventRepository = (*EventRepository)(nil)

type mongoEvent struct {
	ArticleID   string    `bson:"article_id"`
	Action      string    `bson:"action"`
	Actor       string    `bson:"actor,omitempty"`
	Timestamp   time.Time `bson:"timestamp"`
	ProcessedAt time.Time `bson:"processed_at"`
}

// InsertEvent persists a mutation event to the article_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.ArticleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEvent{
		ArticleID:   event.ArticleID,
		Action:      string(event.Action),
		Actor:       event.Actor,
		Timestamp:   event.Timestamp.UTC(),
		ProcessedAt: time.Now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert article event: %w", err)
	}
	return nil
}

// ListByArticle returns up to limit events for one article, newest first.
func (r *EventRepository) ListByArticle(ctx context.Context, articleID string, limit int) ([]*domain.ArticleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"article_id": articleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find article events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode article events: %w", err)
	}

	out := make([]*domain.ArticleEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.ArticleEvent{
			ArticleID: d.ArticleID,
			Action:    domain.ArticleAction(d.Action),
			Actor:     d.Actor,
			Timestamp: d.Timestamp.UTC(),
		})
	}
	return out, nil
}

// EnsureIndexes creates the lookup index used by ListByArticle.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "article_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
