package ports

import (
	"context"

	"github.com/canvord/blog-api/internal/core/domain"
)

// EventRepository persists the article mutation history.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.ArticleEvent) error
	// ListByArticle returns the events of one article, newest first.
	ListByArticle(ctx context.Context, articleID string, limit int) ([]*domain.ArticleEvent, error)
}
