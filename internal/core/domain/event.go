package domain

import "time"

// ArticleAction names a mutation applied to an article.
type ArticleAction string

const (
	ActionCreated        ArticleAction = "created"
	ActionDraftSaved     ArticleAction = "draft_saved"
	ActionUpdated        ArticleAction = "updated"
	ActionDeleted        ArticleAction = "deleted"
	ActionPublished      ArticleAction = "published"
	ActionDraftPublished ArticleAction = "draft_published"
	ActionHidden         ArticleAction = "hidden"
)

// ArticleEvent records a single mutation for the article's history.
type ArticleEvent struct {
	ArticleID string        `json:"article_id" bson:"article_id"`
	Action    ArticleAction `json:"action" bson:"action"`
	Actor     string        `json:"actor,omitempty" bson:"actor,omitempty"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
}
