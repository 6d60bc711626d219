package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/handler"
	"github.com/cyd0c/linkUp/internal/middleware"
	"github.com/cyd0c/linkUp/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /v1/admin. All routes
// require a valid JWT and the Admin role: account approval and removal,
// project verification, platform analytics and blog moderation.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Accounts ----
	g.GET("/users/pending", h.ListPendingUsers)
	g.GET("/users/archived", h.ListArchivedUsers)
	g.GET("/users/:id", h.ViewUser)
	g.POST("/users/:id/approve", h.ApproveUser)
	g.POST("/users/:id/reject", h.RejectUser)
	g.POST("/users/:id/remove", h.RemoveUser)

	// ---- Projects ----
	g.GET("/projects/verifiable", h.ListVerifiableProjects)
	g.POST("/projects/:id/verify", h.VerifyProject)

	// ---- Analytics ----
	g.GET("/analytics", h.Analytics)

	// ---- Blog moderation ----
	g.GET("/blogs", h.ListBlogs)
	g.POST("/blogs/:id/approve", h.ApproveBlog)
	g.POST("/blogs/:id/reject", h.RejectBlog)
}
