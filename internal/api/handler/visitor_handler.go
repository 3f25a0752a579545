package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canvord/blog-api/internal/core/ports"
)

// VisitorHandler serves the public read endpoints. Responses are cached by
// the Cache middleware in front of the /visitor group.
type VisitorHandler struct {
	service ports.VisitorService
}

func NewVisitorHandler(service ports.VisitorService) *VisitorHandler {
	return &VisitorHandler{service: service}
}

// GetBySlug handles GET /visitor/slug/:slug.
//
// @Summary      Read a published article
// @Tags         visitor
// @Produce      json
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  errorResponse
// @Router       /visitor/slug/{slug} [get]
func (h *VisitorHandler) GetBySlug(c echo.Context) error {
	article, err := h.service.FindPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// ListByTitle handles GET /visitor/title/:title.
//
// @Summary      Search published articles by title
// @Tags         visitor
// @Produce      json
// @Param        title  path      string  true  "Title fragment"
// @Success      200    {array}   domain.ArticleMeta
// @Router       /visitor/title/{title} [get]
func (h *VisitorHandler) ListByTitle(c echo.Context) error {
	metas, err := h.service.ListPublishedByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metas)
}

// ListPage handles GET /visitor/page?page=&per=.
//
// @Summary      List published articles page by page
// @Tags         visitor
// @Produce      json
// @Param        page  query     int  true  "Page, from 1"
// @Param        per   query     int  true  "Rows per page, 1 to 100"
// @Success      200   {object}  ports.PageResult
// @Failure      400   {object}  errorResponse
// @Router       /visitor/page [get]
func (h *VisitorHandler) ListPage(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListPublishedPage(c.Request().Context(), q.Page, q.Per)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
