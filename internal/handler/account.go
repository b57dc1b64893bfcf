package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/service"
)

// AccountHandler serves account deletion.
type AccountHandler struct {
	Accounts *service.AccountService
}

// NewAccountHandler constructs the handler and panics on a nil service.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	if accounts == nil {
		panic("nil service passed to NewAccountHandler")
	}
	return &AccountHandler{Accounts: accounts}
}

// Delete handles DELETE /v1/account for the authenticated caller. The
// response status is the guard's outcome: 200 with {status: deleted |
// already_deleted | delete_in_progress}, or 409 with the blocker map
// when owned resources prevent deletion.
func (h *AccountHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	outcome, err := h.Accounts.DeleteAccount(c.Request().Context(), actor.UID)
	if err != nil {
		return respondError(c, err)
	}
	if outcome.Status == service.OutcomeBlocked {
		return c.JSON(http.StatusConflict, outcome)
	}
	return c.JSON(http.StatusOK, outcome)
}
