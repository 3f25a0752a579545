package ports

import (
	"context"

	"github.com/canvord/blog-api/internal/core/domain"
)

// EventRecorder accepts mutation events for asynchronous persistence.
type EventRecorder interface {
	Enqueue(event domain.ArticleEvent)
}

// EventService processes and queries article mutation events.
type EventService interface {
	Process(ctx context.Context, event domain.ArticleEvent) error
	History(ctx context.Context, articleID string) ([]*domain.ArticleEvent, error)
}
