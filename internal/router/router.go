package router // router registers the HTTP routes of the API

import (
	"github.com/labstack/echo/v4"

	"github.com/echocode-app/jm-showroomer-back-sub001/internal/handler"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/middleware"
	"github.com/echocode-app/jm-showroomer-back-sub001/internal/model"
)

// RegisterRoutes wires all endpoints. /healthz stays open; everything
// under /v1 requires a verified bearer token, and /v1/admin additionally
// requires the admin role.
func RegisterRoutes(e *echo.Echo, sh *handler.ShowroomHandler, ah *handler.AdminHandler, ach *handler.AccountHandler, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	v1.POST("/showrooms", sh.Create)
	v1.POST("/showrooms/:id/submit", sh.Submit)
	v1.DELETE("/showrooms/:id", sh.Delete)
	v1.POST("/showrooms/:id/favorite", sh.Favorite)
	v1.POST("/showrooms/:id/view", sh.View)

	v1.DELETE("/account", ach.Delete)

	admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/showrooms", ah.List)
	admin.POST("/showrooms/:id/approve", ah.Approve)
	admin.POST("/showrooms/:id/reject", ah.Reject)
}
