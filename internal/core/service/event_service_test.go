package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/canvord/blog-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	insertErr error
	listErr   error
	inserted  []*domain.ArticleEvent
	lastLimit int
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.ArticleEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func (r *stubEventRepo) ListByArticle(_ context.Context, articleID string, limit int) ([]*domain.ArticleEvent, error) {
	r.lastLimit = limit
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.ArticleEvent
	for i := len(r.inserted) - 1; i >= 0; i-- {
		if r.inserted[i].ArticleID == articleID {
			out = append(out, r.inserted[i])
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestEventService_Process_HappyPath(t *testing.T) {
	evRepo := &stubEventRepo{}
	svc := NewEventService(evRepo, discardLogger)

	err := svc.Process(context.Background(), domain.ArticleEvent{
		ArticleID: "a01",
		Action:    domain.ActionPublished,
		Actor:     "admin",
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(evRepo.inserted) != 1 || evRepo.inserted[0].Action != domain.ActionPublished {
		t.Errorf("expected event inserted, got: %+v", evRepo.inserted)
	}
}

func TestEventService_Process_MissingArticleID(t *testing.T) {
	evRepo := &stubEventRepo{}
	svc := NewEventService(evRepo, discardLogger)

	err := svc.Process(context.Background(), domain.ArticleEvent{Action: domain.ActionCreated})
	if !errors.Is(err, domain.ErrArticleNotFound) {
		t.Errorf("expected ErrArticleNotFound, got: %v", err)
	}
	if len(evRepo.inserted) != 0 {
		t.Errorf("expected nothing inserted")
	}
}

func TestEventService_Process_InsertError(t *testing.T) {
	boom := errors.New("write concern timeout")
	svc := NewEventService(&stubEventRepo{insertErr: boom}, discardLogger)

	err := svc.Process(context.Background(), domain.ArticleEvent{ArticleID: "a01", Action: domain.ActionHidden})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped insert error, got: %v", err)
	}
}

func TestEventService_History_NewestFirst(t *testing.T) {
	evRepo := &stubEventRepo{}
	svc := NewEventService(evRepo, discardLogger)
	ctx := context.Background()

	for _, a := range []domain.ArticleAction{domain.ActionDraftSaved, domain.ActionDraftPublished, domain.ActionHidden} {
		if err := svc.Process(ctx, domain.ArticleEvent{ArticleID: "a01", Action: a}); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	_ = svc.Process(ctx, domain.ArticleEvent{ArticleID: "a02", Action: domain.ActionCreated})

	events, err := svc.History(ctx, "a01")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(events) != 3 || events[0].Action != domain.ActionHidden {
		t.Errorf("unexpected history: %+v", events)
	}
	if evRepo.lastLimit != historyLimit {
		t.Errorf("expected limit %d, got %d", historyLimit, evRepo.lastLimit)
	}
}

func TestEventService_History_Error(t *testing.T) {
	boom := errors.New("cursor killed")
	svc := NewEventService(&stubEventRepo{listErr: boom}, discardLogger)

	if _, err := svc.History(context.Background(), "a01"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped list error, got: %v", err)
	}
}
