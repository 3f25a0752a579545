package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/canvord/blog-api/internal/api/metrics"
	"github.com/canvord/blog-api/internal/auth"
	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

const maxPerPage = 100

type ArticleService struct {
	repo   ports.ArticleRepository
	events ports.EventRecorder
	logger zerolog.Logger
	now    func() time.Time
}

func NewArticleService(repo ports.ArticleRepository, events ports.EventRecorder, logger zerolog.Logger) *ArticleService {
	return &ArticleService{
		repo:   repo,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.ArticleService = (*ArticleService)(nil)

// Create stores a new article that is immediately published.
func (s *ArticleService) Create(ctx context.Context, input ports.ArticleInput) (*domain.Article, error) {
	return s.insert(ctx, input, domain.StatusPublished, domain.ActionCreated)
}

// SaveDraft stores a new unpublished article.
func (s *ArticleService) SaveDraft(ctx context.Context, input ports.ArticleInput) (*domain.Article, error) {
	return s.insert(ctx, input, domain.StatusUnpublished, domain.ActionDraftSaved)
}

func (s *ArticleService) insert(ctx context.Context, input ports.ArticleInput, status domain.ArticleStatus, action domain.ArticleAction) (*domain.Article, error) {
	now := s.now()
	article := &domain.Article{
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
		ContentMD:   input.ContentMD,
		Category:    input.Category,
		CreatedAt:   now,
		LastUpdate:  now,
		Status:      status,
	}

	created, err := s.repo.Create(ctx, article)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", input.Slug).Msg("failed to create article")
		return nil, err
	}

	s.record(ctx, created.ID, action)
	s.logger.Info().Str("article_id", created.ID).Str("slug", created.Slug).Str("status", string(status)).Msg("article created")
	return created, nil
}

// Update replaces the editable fields and the status of an article.
func (s *ArticleService) Update(ctx context.Context, input ports.UpdateArticleInput) (*domain.Article, error) {
	if !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	article := fromInput(input.ID, input.ArticleInput)
	article.Status = input.Status
	article.LastUpdate = s.now()

	updated, err := s.repo.Replace(ctx, article)
	if err != nil {
		return nil, err
	}

	s.record(ctx, updated.ID, domain.ActionUpdated)
	return updated, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, id, domain.ActionDeleted)
	s.logger.Info().Str("article_id", id).Msg("article deleted")
	return nil
}

func (s *ArticleService) Publish(ctx context.Context, id string) (*domain.Article, error) {
	return s.setStatus(ctx, id, domain.StatusPublished, domain.ActionPublished)
}

func (s *ArticleService) Hide(ctx context.Context, id string) (*domain.Article, error) {
	return s.setStatus(ctx, id, domain.StatusHidden, domain.ActionHidden)
}

func (s *ArticleService) setStatus(ctx context.Context, id string, status domain.ArticleStatus, action domain.ArticleAction) (*domain.Article, error) {
	updated, err := s.repo.SetStatus(ctx, id, status, s.now())
	if err != nil {
		return nil, err
	}

	s.record(ctx, id, action)
	return updated, nil
}

// PublishDraft replaces the fields of an unpublished article and publishes
// it. Articles in any other status are rejected with ErrNotDraft.
func (s *ArticleService) PublishDraft(ctx context.Context, input ports.PublishDraftInput) (*domain.Article, error) {
	current, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusUnpublished {
		return nil, domain.ErrNotDraft
	}

	article := fromInput(input.ID, input.ArticleInput)
	article.Status = domain.StatusPublished
	article.LastUpdate = s.now()

	updated, err := s.repo.Replace(ctx, article)
	if err != nil {
		return nil, err
	}

	s.record(ctx, updated.ID, domain.ActionDraftPublished)
	return updated, nil
}

func (s *ArticleService) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ArticleService) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return s.repo.FindBySlug(ctx, slug, "")
}

func (s *ArticleService) ListByTitle(ctx context.Context, title string) ([]domain.ArticleMeta, error) {
	articles, err := s.repo.ListByTitle(ctx, title, "")
	if err != nil {
		return nil, err
	}
	return toMetas(articles), nil
}

// ListPage returns one page of article summaries, optionally filtered by status.
func (s *ArticleService) ListPage(ctx context.Context, input ports.PageInput) (*ports.PageResult, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return listPage(ctx, s.repo, input)
}

// record hands the mutation to the event dispatcher. The actor is the
// authenticated caller, when there is one.
func (s *ArticleService) record(ctx context.Context, articleID string, action domain.ArticleAction) {
	metrics.ArticleMutationsTotal.WithLabelValues(string(action)).Inc()
	if s.events == nil {
		return
	}

	var actor string
	if id, ok := auth.IdentityFrom(ctx); ok {
		actor = id.UserID
	}
	s.events.Enqueue(domain.ArticleEvent{
		ArticleID: articleID,
		Action:    action,
		Actor:     actor,
		Timestamp: s.now(),
	})
}

func fromInput(id string, in ports.ArticleInput) *domain.Article {
	return &domain.Article{
		ID:          id,
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		ContentMD:   in.ContentMD,
		Category:    in.Category,
	}
}

func listPage(ctx context.Context, repo ports.ArticleRepository, input ports.PageInput) (*ports.PageResult, error) {
	if input.Page < 1 || input.Per < 1 || input.Per > maxPerPage {
		return nil, domain.ErrInvalidPage
	}

	articles, total, err := repo.List(ctx, ports.ListArticlesFilter{
		Status: input.Status,
		Page:   input.Page,
		Per:    input.Per,
	})
	if err != nil {
		return nil, err
	}

	return &ports.PageResult{
		Total:   int((total + int64(input.Per) - 1) / int64(input.Per)),
		Current: input.Page,
		Size:    input.Per,
		Data:    toMetas(articles),
	}, nil
}

func toMetas(articles []*domain.Article) []domain.ArticleMeta {
	out := make([]domain.ArticleMeta, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Meta())
	}
	return out
}
