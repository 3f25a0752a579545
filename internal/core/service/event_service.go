package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

// historyLimit caps how many events History returns.
const historyLimit = 100

type eventService struct {
	eventRepo ports.EventRepository
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(eventRepo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{
		eventRepo: eventRepo,
		log:       log,
	}
}

// Process persists a single article mutation event.
func (s *eventService) Process(ctx context.Context, event domain.ArticleEvent) error {
	if event.ArticleID == "" {
		return fmt.Errorf("process event: %w", domain.ErrArticleNotFound)
	}

	if err := s.eventRepo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("process event: %w", err)
	}

	s.log.Debug().
		Str("article_id", event.ArticleID).
		Str("action", string(event.Action)).
		Str("actor", event.Actor).
		Msg("event recorded")

	return nil
}

// History returns the most recent events of one article, newest first.
func (s *eventService) History(ctx context.Context, articleID string) ([]*domain.ArticleEvent, error) {
	events, err := s.eventRepo.ListByArticle(ctx, articleID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("event history: %w", err)
	}
	return events, nil
}
