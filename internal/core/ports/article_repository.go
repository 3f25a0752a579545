package ports

import (
	"context"
	"time"

	"github.com/canvord/blog-api/internal/core/domain"
)

// ListArticlesFilter carries the query parameters for paged listings.
type ListArticlesFilter struct {
	Status domain.ArticleStatus // empty = any status
	Page   int                  // 1-based
	Per    int                  // rows per page
}

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	// Create inserts the article and returns it with its assigned ID.
	Create(ctx context.Context, a *domain.Article) (*domain.Article, error)
	// Replace overwrites the editable fields, status and last_update of an existing article.
	Replace(ctx context.Context, a *domain.Article) (*domain.Article, error)
	SetStatus(ctx context.Context, id string, status domain.ArticleStatus, at time.Time) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	// FindBySlug retrieves an article by slug. When status is non-empty the
	// query is additionally filtered by status.
	FindBySlug(ctx context.Context, slug string, status domain.ArticleStatus) (*domain.Article, error)
	// ListByTitle returns articles whose title contains title (case-insensitive),
	// oldest first.
	ListByTitle(ctx context.Context, title string, status domain.ArticleStatus) ([]*domain.Article, error)
	// List returns one page of articles and the total number of matching rows.
	List(ctx context.Context, filter ListArticlesFilter) ([]*domain.Article, int64, error)
}
