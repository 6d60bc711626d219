package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/handler"
	"github.com/cyd0c/linkUp/internal/middleware"
	"github.com/cyd0c/linkUp/internal/model"
)

// RegisterStudent registers student-scoped endpoints under /v1. All routes
// require a valid JWT and the Student role. Students apply to open jobs,
// push progress on assigned projects, redeem approval codes and maintain
// their profile.
func RegisterStudent(e *echo.Echo, h *handler.StudentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/student",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStudent),
	)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/payments", h.ListPayments)
	g.POST("/jobs/:id/apply", h.Apply)
	g.POST("/projects/:id/progress", h.UpdateProgress)
	g.POST("/projects/submit-code", h.SubmitCode)
	g.PUT("/profile", h.EditProfile)
}
