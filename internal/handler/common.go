package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/middleware"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/repository"
)

// getActor extracts the authenticated caller from the echo context, where
// the JWT middleware stored the verified claims.
func getActor(c echo.Context) (model.Actor, error) {
	uid, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(string)
	if uid == "" {
		return model.Actor{}, errors.New("missing actor in context")
	}
	return model.Actor{UID: uid, Role: role}, nil
}

// respondError maps coded domain errors onto HTTP responses. Codes are
// propagated as-is so clients can branch on them; meta rides along when
// present (e.g. nextAvailableAt on the recreate cooldown conflict).
func respondError(c echo.Context, err error) error {
	var e *repository.Error
	if !errors.As(err, &e) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}

	status := http.StatusInternalServerError
	switch e.Code {
	case repository.CodeQueryInvalid, repository.CodeCursorInvalid:
		status = http.StatusBadRequest
	case repository.CodeForbidden:
		status = http.StatusForbidden
	case repository.CodeShowroomNotFound, repository.CodeUserNotFound:
		status = http.StatusNotFound
	case repository.CodeStateConflict, repository.CodeRecreateCooldown:
		status = http.StatusConflict
	}

	body := echo.Map{"error": e.Code, "message": e.Message}
	if len(e.Meta) > 0 {
		body["meta"] = e.Meta
	}
	return c.JSON(status, body)
}
