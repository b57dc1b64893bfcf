package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/service"
)

// AdminHandler serves the moderation endpoints. Routes carrying it are
// additionally gated by RequireRole(admin); the services re-check the
// role so the invariant does not rest on routing alone.
type AdminHandler struct {
	Moderation *service.ModerationService
	Showrooms  *service.ShowroomService
}

// NewAdminHandler constructs the handler and panics on nil services.
func NewAdminHandler(moderation *service.ModerationService, showrooms *service.ShowroomService) *AdminHandler {
	if moderation == nil || showrooms == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Moderation: moderation, Showrooms: showrooms}
}

// List handles GET /v1/admin/showrooms. The query surface is exactly
// status, limit and cursor; the service validates it and pages with
// opaque cursors.
func (h *AdminHandler) List(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, err := h.Moderation.List(c.Request().Context(), c.QueryParams(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Approve handles POST /v1/admin/showrooms/:id/approve.
func (h *AdminHandler) Approve(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sr, err := h.Showrooms.Approve(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, service.NewShowroomDTO(sr))
}

// Reject handles POST /v1/admin/showrooms/:id/reject.
func (h *AdminHandler) Reject(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sr, err := h.Showrooms.Reject(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, service.NewShowroomDTO(sr))
}
