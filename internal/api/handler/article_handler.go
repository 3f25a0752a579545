package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

// ArticleHandler serves the admin article endpoints. Every route sits behind
// the Auth and RBAC middleware; service errors are returned as-is and mapped
// by the API error handler.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// bindAndValidate decodes the request into req and runs the validator.
// Decode failures are 400, rule violations 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// Create handles POST /articles/create.
//
// @Summary      Create and publish an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      articleRequest  true  "Article"
// @Success      201   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /articles/create [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	var req articleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, article)
}

// SaveDraft handles PUT /articles/save-draft.
//
// @Summary      Save a new unpublished article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      articleRequest  true  "Draft"
// @Success      201   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /articles/save-draft [put]
func (h *ArticleHandler) SaveDraft(c echo.Context) error {
	var req articleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.service.SaveDraft(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, article)
}

// Update handles PUT /articles/update.
//
// @Summary      Replace an article's fields and status
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateArticleRequest  true  "Article"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /articles/update [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	var req updateArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.service.Update(c.Request().Context(), ports.UpdateArticleInput{
		ID:           req.ID,
		Status:       domain.ArticleStatus(req.Status),
		ArticleInput: req.toInput(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// PublishDraft handles PUT /articles/publish-draft.
//
// @Summary      Replace a draft's fields and publish it
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      publishDraftRequest  true  "Draft"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /articles/publish-draft [put]
func (h *ArticleHandler) PublishDraft(c echo.Context) error {
	var req publishDraftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.service.PublishDraft(c.Request().Context(), ports.PublishDraftInput{
		ID:           req.ID,
		ArticleInput: req.toInput(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /articles/delete.
//
// @Summary      Delete an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      idRequest  true  "Article ID"
// @Success      200   {object}  deletedResponse
// @Failure      404   {object}  errorResponse
// @Router       /articles/delete [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	var req idRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedResponse{ID: req.ID, Deleted: true})
}

// Publish handles PUT /articles/publish.
//
// @Summary      Publish an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      idRequest  true  "Article ID"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  errorResponse
// @Router       /articles/publish [put]
func (h *ArticleHandler) Publish(c echo.Context) error {
	var req idRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.service.Publish(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Hide handles PUT /articles/hide.
//
// @Summary      Hide an article from visitors
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      idRequest  true  "Article ID"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  errorResponse
// @Router       /articles/hide [put]
func (h *ArticleHandler) Hide(c echo.Context) error {
	var req idRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.service.Hide(c.Request().Context(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// GetByID handles GET /articles/id/:id.
//
// @Summary      Get an article by ID
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  domain.Article
// @Failure      404  {object}  errorResponse
// @Router       /articles/id/{id} [get]
func (h *ArticleHandler) GetByID(c echo.Context) error {
	article, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// GetBySlug handles GET /articles/slug/:slug. Drafts and hidden articles are included.
//
// @Summary      Get an article by slug
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  errorResponse
// @Router       /articles/slug/{slug} [get]
func (h *ArticleHandler) GetBySlug(c echo.Context) error {
	article, err := h.service.FindBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// ListByTitle handles GET /articles/title/:title.
//
// @Summary      Search articles by title
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        title  path      string  true  "Title fragment"
// @Success      200    {array}   domain.ArticleMeta
// @Router       /articles/title/{title} [get]
func (h *ArticleHandler) ListByTitle(c echo.Context) error {
	metas, err := h.service.ListByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metas)
}

// ListPage handles GET /articles/page?page=&per=&status=.
//
// @Summary      List articles page by page
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     true   "Page, from 1"
// @Param        per     query     int     true   "Rows per page, 1 to 100"
// @Param        status  query     string  false  "published, unpublished or hidden"
// @Success      200     {object}  ports.PageResult
// @Failure      400     {object}  errorResponse
// @Router       /articles/page [get]
func (h *ArticleHandler) ListPage(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	page, err := h.service.ListPage(c.Request().Context(), ports.PageInput{
		Page:   q.Page,
		Per:    q.Per,
		Status: domain.ArticleStatus(q.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// bindPage reads and validates the paging query. Bad paging is a 400.
func bindPage(c echo.Context) (pageQuery, error) {
	var q pageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid paging parameters")
	}
	if err := c.Validate(&q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return q, nil
}
