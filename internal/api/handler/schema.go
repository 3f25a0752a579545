package handler

import "github.com/canvord/blog-api/internal/core/ports"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type articleRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Slug        string `json:"slug"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Category    string `json:"category"    validate:"max=100"`
	ContentMD   string `json:"content_md"`
}

type updateArticleRequest struct {
	ID     string `json:"id"     validate:"required"`
	Status string `json:"status" validate:"required,oneof=published unpublished hidden"`
	articleRequest
}

type publishDraftRequest struct {
	ID string `json:"id" validate:"required"`
	articleRequest
}

// idRequest is the body of delete, hide and publish.
type idRequest struct {
	ID string `json:"id" validate:"required"`
}

type pageQuery struct {
	Page   int    `query:"page"   validate:"gte=1"`
	Per    int    `query:"per"    validate:"gte=1,lte=100"`
	Status string `query:"status" validate:"omitempty,oneof=published unpublished hidden"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type deletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (r articleRequest) toInput() ports.ArticleInput {
	return ports.ArticleInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		ContentMD:   r.ContentMD,
	}
}
