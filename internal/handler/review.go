package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/repository"
)

// ReviewHandler covers the review ledger. Reviews attach to a project and
// may be written by either of its parties, so the routes sit behind JWTAuth
// only; membership is checked here.
type ReviewHandler struct {
	Projects *repository.ProjectRepo
	Reviews  *repository.ReviewRepo
}

func NewReviewHandler(projects *repository.ProjectRepo, reviews *repository.ReviewRepo) *ReviewHandler {
	if projects == nil || reviews == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Projects: projects, Reviews: reviews}
}

// Create handles POST /v1/projects/:id/reviews. The rating must be 1 to 5.
func (h *ReviewHandler) Create(c echo.Context) error {
	reviewerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var body struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Rating < 1 || body.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	if project.ClientID != reviewerID && project.StudentID != reviewerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	id, err := h.Reviews.Create(ctx, projectID, reviewerID, body.Rating, strings.TrimSpace(body.Text))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"review_id": id})
}

// List handles GET /v1/projects/:id/reviews.
func (h *ReviewHandler) List(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	ctx := c.Request().Context()
	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	if project.ClientID != callerID && project.StudentID != callerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	reviews, err := h.Reviews.ListByProject(ctx, projectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reviews failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reviews})
}
