package service

import (
	"context"
	"errors"
	"testing"

	"github.com/canvord/blog-api/internal/core/domain"
)

func TestVisitorService_OnlyPublished(t *testing.T) {
	repo := newStubArticleRepo()
	admin := newArticleSvc(repo, &stubRecorder{})
	seedArticles(t, admin, 4) // 1 and 3 published, 2 and 4 drafts
	hidden, _ := admin.Create(adminCtx(), input("Post hidden", "post-hidden"))
	_, _ = admin.Hide(adminCtx(), hidden.ID)

	svc := NewVisitorService(repo)
	ctx := context.Background()

	if _, err := svc.FindPublishedBySlug(ctx, "post-1"); err != nil {
		t.Errorf("published slug: unexpected error %v", err)
	}
	for _, slug := range []string{"post-2", "post-hidden", "missing"} {
		if _, err := svc.FindPublishedBySlug(ctx, slug); !errors.Is(err, domain.ErrArticleNotFound) {
			t.Errorf("slug %s: expected ErrArticleNotFound, got %v", slug, err)
		}
	}

	metas, err := svc.ListPublishedByTitle(ctx, "post")
	if err != nil {
		t.Fatalf("ListPublishedByTitle returned error: %v", err)
	}
	if len(metas) != 2 || metas[0].Slug != "post-1" || metas[1].Slug != "post-3" {
		t.Errorf("unexpected title matches: %+v", metas)
	}

	page, err := svc.ListPublishedPage(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListPublishedPage returned error: %v", err)
	}
	if repo.lastFilter.Status != domain.StatusPublished {
		t.Errorf("expected published filter, got %q", repo.lastFilter.Status)
	}
	if page.Total != 2 || len(page.Data) != 1 || page.Data[0].Slug != "post-3" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestVisitorService_PageValidation(t *testing.T) {
	svc := NewVisitorService(newStubArticleRepo())

	if _, err := svc.ListPublishedPage(context.Background(), 0, 10); !errors.Is(err, domain.ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage, got %v", err)
	}
	if _, err := svc.ListPublishedPage(context.Background(), 1, 500); !errors.Is(err, domain.ErrInvalidPage) {
		t.Errorf("expected ErrInvalidPage, got %v", err)
	}
}
