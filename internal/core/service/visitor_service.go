package service

import (
	"context"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

// VisitorService serves the public read side. Only published articles are
// ever returned; anything else looks like it does not exist.
type VisitorService struct {
	repo ports.ArticleRepository
}

func NewVisitorService(repo ports.ArticleRepository) *VisitorService {
	return &VisitorService{repo: repo}
}

var _ ports.VisitorService = (*VisitorService)(nil)

func (s *VisitorService) FindPublishedBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return s.repo.FindBySlug(ctx, slug, domain.StatusPublished)
}

func (s *VisitorService) ListPublishedByTitle(ctx context.Context, title string) ([]domain.ArticleMeta, error) {
	articles, err := s.repo.ListByTitle(ctx, title, domain.StatusPublished)
	if err != nil {
		return nil, err
	}
	return toMetas(articles), nil
}

func (s *VisitorService) ListPublishedPage(ctx context.Context, page, per int) (*ports.PageResult, error) {
	return listPage(ctx, s.repo, ports.PageInput{Page: page, Per: per, Status: domain.StatusPublished})
}
