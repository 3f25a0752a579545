package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

const collectionArticles = "articles"

type ArticleRepository struct {
	col *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection(collectionArticles)}
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

type mongoArticle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	ContentMD   string             `bson:"content_md"`
	Category    string             `bson:"category"`
	CreatedAt   time.Time          `bson:"created_at"`
	LastUpdate  time.Time          `bson:"last_update"`
	Status      string             `bson:"status"`
}

func toMongoArticle(a *domain.Article) mongoArticle {
	return mongoArticle{
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		ContentMD:   a.ContentMD,
		Category:    a.Category,
		CreatedAt:   a.CreatedAt.UTC(),
		LastUpdate:  a.LastUpdate.UTC(),
		Status:      string(a.Status),
	}
}

func (m *mongoArticle) toDomain() *domain.Article {
	return &domain.Article{
		ID:          m.ID.Hex(),
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		ContentMD:   m.ContentMD,
		Category:    m.Category,
		CreatedAt:   m.CreatedAt.UTC(),
		LastUpdate:  m.LastUpdate.UTC(),
		Status:      domain.ArticleStatus(m.Status),
	}
}

// Create inserts a new article document.
func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoArticle(a)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// Replace overwrites every editable field of an existing article and returns
// the stored result. created_at is never touched.
func (r *ArticleRepository) Replace(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	oid, err := objectID(a.ID)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":       a.Title,
		"slug":        a.Slug,
		"description": a.Description,
		"content_md":  a.ContentMD,
		"category":    a.Category,
		"status":      string(a.Status),
		"last_update": a.LastUpdate.UTC(),
	}}
	return r.updateOne(ctx, oid, update)
}

// SetStatus changes the status of one article and bumps last_update.
func (r *ArticleRepository) SetStatus(ctx context.Context, id string, status domain.ArticleStatus, at time.Time) (*domain.Article, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"status":      string(status),
		"last_update": at.UTC(),
	}}
	return r.updateOne(ctx, oid, update)
}

func (r *ArticleRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoArticle
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrArticleNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes an article by ID.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// FindByID retrieves an article by its hex ObjectID.
func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindBySlug retrieves an article by slug.
// When status is non-empty, an additional filter by status is applied.
func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string, status domain.ArticleStatus) (*domain.Article, error) {
	filter := bson.M{"slug": slug}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.findOne(ctx, filter)
}

func (r *ArticleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoArticle
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByTitle returns the articles whose title contains title, ignoring case,
// ordered by creation time.
func (r *ArticleRepository) ListByTitle(ctx context.Context, title string, status domain.ArticleStatus) ([]*domain.Article, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"}}
	if status != "" {
		filter["status"] = string(status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, filter, opts)
}

// List returns one page of articles, newest first, and the total number of
// matching documents.
func (r *ArticleRepository) List(ctx context.Context, f ports.ListArticlesFilter) ([]*domain.Article, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Per)).
		SetLimit(int64(f.Per))

	articles, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *ArticleRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoArticle
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	out := make([]*domain.Article, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the articles collection.
func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// objectID parses a hex article ID. Anything that is not a valid ObjectID
// cannot name a stored article.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrArticleNotFound
	}
	return oid, nil
}
