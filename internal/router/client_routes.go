package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/handler"
	"github.com/cyd0c/linkUp/internal/middleware"
	"github.com/cyd0c/linkUp/internal/model"
)

// RegisterClient registers client-scoped endpoints under /v1. All routes
// require a valid JWT and the Client role. Clients post jobs, review
// applications, assign one applicant (closing the job) and approve
// submitted work.
func RegisterClient(e *echo.Echo, h *handler.ClientHandler, jwtSecret string) {
	g := e.Group(
		"/v1/client",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleClient),
	)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/jobs", h.PostJob)
	g.GET("/jobs/:id/applications", h.ListApplications)
	g.POST("/applications/:id/assign", h.AssignApplication)
	g.GET("/projects/:id", h.GetProject)
	g.POST("/projects/:id/approve", h.ApproveProject)
}
