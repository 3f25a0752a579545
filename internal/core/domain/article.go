package domain

import (
	"errors"
	"time"
)

// ArticleStatus represents the visibility state of an article.
type ArticleStatus string

const (
	StatusPublished   ArticleStatus = "published"
	StatusUnpublished ArticleStatus = "unpublished"
	StatusHidden      ArticleStatus = "hidden"
)

var ErrArticleNotFound = errors.New("article not found")
var ErrSlugTaken = errors.New("slug already in use")
var ErrNotDraft = errors.New("only draft articles can be published as draft")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidStatus = errors.New("invalid article status")
var ErrInvalidPage = errors.New("page must be >= 1 and per between 1 and 100")

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusPublished, StatusUnpublished, StatusHidden:
		return true
	}
	return false
}

// Article is the core aggregate root.
type Article struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	Title       string        `json:"title" bson:"title"`
	Slug        string        `json:"slug" bson:"slug"`
	Description string        `json:"description" bson:"description"`
	ContentMD   string        `json:"content_md" bson:"content_md"`
	Category    string        `json:"category" bson:"category"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	LastUpdate  time.Time     `json:"last_update" bson:"last_update"`
	Status      ArticleStatus `json:"status" bson:"status"`
}

// ArticleMeta is the list view of an article (no markdown body).
type ArticleMeta struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	LastUpdate  time.Time     `json:"last_update"`
	Status      ArticleStatus `json:"status"`
}

// Meta projects the article onto its list view.
func (a *Article) Meta() ArticleMeta {
	return ArticleMeta{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Category:    a.Category,
		LastUpdate:  a.LastUpdate,
		Status:      a.Status,
	}
}
