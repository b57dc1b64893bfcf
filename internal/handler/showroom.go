// Package handler defines the HTTP boundary for showroom lifecycle
// operations. Handlers stay thin: extract the actor, hand off to the
// service, map coded errors to HTTP statuses. Body schema validation
// beyond JSON decoding belongs to the gateway in front of this service.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/service"
)

// ShowroomHandler serves owner-facing showroom endpoints.
type ShowroomHandler struct {
	Showrooms  *service.ShowroomService
	Engagement *service.EngagementService
}

// NewShowroomHandler constructs the handler and panics on nil services.
func NewShowroomHandler(showrooms *service.ShowroomService, engagement *service.EngagementService) *ShowroomHandler {
	if showrooms == nil || engagement == nil {
		panic("nil service passed to NewShowroomHandler")
	}
	return &ShowroomHandler{Showrooms: showrooms, Engagement: engagement}
}

// Create handles POST /v1/showrooms. Opens a draft for the caller; a 409
// with meta.nextAvailableAt signals the recreate cooldown.
func (h *ShowroomHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var input service.CreateShowroomInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	sr, err := h.Showrooms.Create(c.Request().Context(), actor, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, service.NewShowroomDTO(sr))
}

// Submit handles POST /v1/showrooms/:id/submit, moving a draft or
// rejected showroom into pending review.
func (h *ShowroomHandler) Submit(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sr, err := h.Showrooms.Submit(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, service.NewShowroomDTO(sr))
}

// Delete handles DELETE /v1/showrooms/:id as a soft delete. The record
// persists with status deleted; a second delete returns 409.
func (h *ShowroomHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := h.Showrooms.SoftDelete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Favorite handles POST /v1/showrooms/:id/favorite, toggling the mark
// with debouncing.
func (h *ShowroomHandler) Favorite(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	favorited, err := h.Engagement.ToggleFavorite(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"favorited": favorited})
}

// View handles POST /v1/showrooms/:id/view, counting at most one view
// per caller per suppression window.
func (h *ShowroomHandler) View(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	counted, err := h.Engagement.RecordView(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"counted": counted})
}
