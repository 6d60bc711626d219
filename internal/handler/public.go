package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/repository"
)

// PublicHandler serves unauthenticated browse routes. These sit behind the
// Redis response cache, so handlers here must stay read-only.
type PublicHandler struct {
	Accounts *repository.AccountRepo
	Jobs     *repository.JobRepo
	Projects *repository.ProjectRepo
	Reviews  *repository.ReviewRepo
	Blogs    *repository.BlogRepo
}

func NewPublicHandler(accounts *repository.AccountRepo, jobs *repository.JobRepo, projects *repository.ProjectRepo, reviews *repository.ReviewRepo, blogs *repository.BlogRepo) *PublicHandler {
	if accounts == nil || jobs == nil || projects == nil || reviews == nil || blogs == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Accounts: accounts, Jobs: jobs, Projects: projects, Reviews: reviews, Blogs: blogs}
}

// BrowseJobs handles GET /v1/jobs, the open listings.
func (h *PublicHandler) BrowseJobs(c echo.Context) error {
	jobs, err := h.Jobs.ListOpen(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load jobs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": jobs})
}

// BrowseBlogs handles GET /v1/blogs, approved posts only.
func (h *PublicHandler) BrowseBlogs(c echo.Context) error {
	blogs, err := h.Blogs.ListByStatus(c.Request().Context(), model.BlogApproved)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load blogs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": blogs})
}

// Portfolio handles GET /v1/students/:id/portfolio: the public face of an
// approved student, built from verified work only. In-flight projects and
// approval codes never appear here.
func (h *PublicHandler) Portfolio(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	ctx := c.Request().Context()
	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	if a.Role != model.RoleStudent || a.Status != model.AccountApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
	}

	projects, err := h.Projects.ListVerifiedByStudent(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load projects failed"})
	}
	avg, err := h.Reviews.AverageForStudent(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rating failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"student": echo.Map{
			"id":          a.ID,
			"username":    a.Username,
			"bio":         a.Bio,
			"skills":      a.Skills,
			"resume":      a.Resume,
			"profile_pic": a.ProfilePic,
			"badge":       a.Badge,
		},
		"verified_projects": projects,
		"average_rating":    avg,
	})
}
