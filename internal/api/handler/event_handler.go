package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

// EventHandler exposes the article mutation history.
type EventHandler struct {
	service ports.EventService
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// History handles GET /articles/id/:id/events, newest first.
//
// @Summary      List the mutation history of an article
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {array}   domain.ArticleEvent
// @Failure      401  {object}  errorResponse
// @Router       /articles/id/{id}/events [get]
func (h *EventHandler) History(c echo.Context) error {
	events, err := h.service.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.ArticleEvent{}
	}
	return c.JSON(http.StatusOK, events)
}
