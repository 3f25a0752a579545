package ports

import (
	"context"

	"github.com/canvord/blog-api/internal/core/domain"
)

// ArticleInput carries the editable fields of an article.
type ArticleInput struct {
	Title       string
	Slug        string
	Description string
	Category    string
	ContentMD   string
}

// UpdateArticleInput replaces an article's fields and status.
type UpdateArticleInput struct {
	ID     string
	Status domain.ArticleStatus
	ArticleInput
}

// PublishDraftInput replaces a draft's fields and publishes it.
type PublishDraftInput struct {
	ID string
	ArticleInput
}

// PageInput carries paging parameters. Status is optional.
type PageInput struct {
	Page   int
	Per    int
	Status domain.ArticleStatus
}

// PageResult is one page of article summaries.
// Total is the number of pages, not the number of rows.
type PageResult struct {
	Total   int                  `json:"total"`
	Current int                  `json:"current"`
	Size    int                  `json:"size"`
	Data    []domain.ArticleMeta `json:"data"`
}

// ArticleService defines the editor use cases.
type ArticleService interface {
	Create(ctx context.Context, input ArticleInput) (*domain.Article, error)
	SaveDraft(ctx context.Context, input ArticleInput) (*domain.Article, error)
	Update(ctx context.Context, input UpdateArticleInput) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) (*domain.Article, error)
	PublishDraft(ctx context.Context, input PublishDraftInput) (*domain.Article, error)
	Hide(ctx context.Context, id string) (*domain.Article, error)

	FindByID(ctx context.Context, id string) (*domain.Article, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Article, error)
	ListByTitle(ctx context.Context, title string) ([]domain.ArticleMeta, error)
	ListPage(ctx context.Context, input PageInput) (*PageResult, error)
}

// VisitorService defines the read-only use cases exposed to readers.
// Only published articles are visible.
type VisitorService interface {
	FindPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error)
	ListPublishedByTitle(ctx context.Context, title string) ([]domain.ArticleMeta, error)
	ListPublishedPage(ctx context.Context, page, per int) (*PageResult, error)
}
