package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/handler"
	"github.com/cyd0c/linkUp/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Unauthenticated operations
// live under /v1/auth; /v1/me sits behind JWTAuth so any logged-in role can
// inspect its own account.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout only needs the refresh token in the body, not a live access
	// token, so it stays outside the protected group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: open job
// listings, approved blog posts and student portfolios. The caller may wrap
// them in the response cache middleware since they are read-only.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/jobs", p.BrowseJobs)
	g.GET("/blogs", p.BrowseBlogs)
	g.GET("/students/:id/portfolio", p.Portfolio)
}

// RegisterBlog registers authoring routes. Any approved account can submit a
// post for moderation and list its own posts, so only JWTAuth applies.
func RegisterBlog(e *echo.Echo, b *handler.BlogHandler, jwtSecret string) {
	g := e.Group("/v1/blogs", middleware.JWTAuth(jwtSecret))
	g.POST("", b.Post)
	g.GET("/mine", b.Mine)
}

// RegisterMessages registers the per-project message thread. Both parties of
// a project may read and post; the handler enforces membership.
func RegisterMessages(e *echo.Echo, m *handler.MessageHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/projects/:id/messages", m.List)
	g.POST("/projects/:id/messages", m.Post)
}

// RegisterReviews registers the project review routes. Either party of a
// project may write and read its reviews; the handler enforces membership.
func RegisterReviews(e *echo.Echo, r *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/projects/:id/reviews", r.List)
	g.POST("/projects/:id/reviews", r.Create)
}
