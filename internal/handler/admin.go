package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/queue"
	"github.com/cyd0c/linkUp/internal/repository"
	queue_publisher "github.com/cyd0c/linkUp/internal/service"
)

// AdminHandler implements platform oversight: account approval, project
// verification, account removal with archival, analytics and blog
// moderation. Every route in this handler sits behind RequireRole(Admin).
type AdminHandler struct {
	Accounts *repository.AccountRepo
	Tokens   *repository.TokenRepo
	Projects *repository.ProjectRepo
	Reviews  *repository.ReviewRepo
	Blogs    *repository.BlogRepo
	Stats    *repository.StatsRepo
}

func NewAdminHandler(accounts *repository.AccountRepo, tokens *repository.TokenRepo, projects *repository.ProjectRepo, reviews *repository.ReviewRepo, blogs *repository.BlogRepo, stats *repository.StatsRepo) *AdminHandler {
	if accounts == nil || tokens == nil || projects == nil || reviews == nil || blogs == nil || stats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Accounts: accounts, Tokens: tokens, Projects: projects, Reviews: reviews, Blogs: blogs, Stats: stats}
}

// ApproveUser handles POST /v1/admin/users/:id/approve. Approving an
// already approved account is a no-op.
func (h *AdminHandler) ApproveUser(c echo.Context) error {
	return h.setUserStatus(c, model.AccountApproved)
}

// RejectUser handles POST /v1/admin/users/:id/reject.
func (h *AdminHandler) RejectUser(c echo.Context) error {
	return h.setUserStatus(c, model.AccountRejected)
}

func (h *AdminHandler) setUserStatus(c echo.Context, status string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Accounts.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "status": status})
}

// RemoveUser handles POST /v1/admin/users/:id/remove. The account is
// archived into removed_users and hard-deleted in one transaction. Rows
// referencing the account elsewhere stay behind as dangling references;
// reads resolve them to a placeholder.
func (h *AdminHandler) RemoveUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body)
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		reason = "Removed by admin"
	}

	ctx := c.Request().Context()
	tx, err := h.Accounts.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Accounts.RemoveTx(ctx, tx, id, reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove user failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// best effort: kill any live sessions, the account row is already gone
	_ = h.Tokens.RevokeAllForAccount(ctx, id)
	return c.NoContent(http.StatusNoContent)
}

// ListPendingUsers handles GET /v1/admin/users/pending.
func (h *AdminHandler) ListPendingUsers(c echo.Context) error {
	accounts, err := h.Accounts.ListPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load accounts failed"})
	}
	items := make([]accountPart, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, accountPart{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role, Status: a.Status})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ViewUser handles GET /v1/admin/users/:id. For students the response also
// carries their verified projects and average rating.
func (h *AdminHandler) ViewUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx := c.Request().Context()
	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	resp := echo.Map{"user": a}
	if a.Role == model.RoleStudent {
		projects, err := h.Projects.ListVerifiedByStudent(ctx, a.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load projects failed"})
		}
		avg, err := h.Reviews.AverageForStudent(ctx, a.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rating failed"})
		}
		resp["verified_projects"] = projects
		resp["average_rating"] = avg
	}
	return c.JSON(http.StatusOK, resp)
}

// ListArchivedUsers handles GET /v1/admin/users/archived.
func (h *AdminHandler) ListArchivedUsers(c echo.Context) error {
	removed, err := h.Accounts.ListRemoved(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load archive failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": removed})
}

// ListVerifiableProjects handles GET /v1/admin/projects/verifiable:
// projects whose code was redeemed and which await the terminal sign-off.
func (h *AdminHandler) ListVerifiableProjects(c echo.Context) error {
	projects, err := h.Projects.ListVerifiable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load projects failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": projects})
}

// VerifyProject handles POST /v1/admin/projects/:id/verify, the terminal,
// irreversible transition. Preconditions: a code has been issued, the
// project is unverified and its status is submitted. Violations return 409;
// a retry on an already verified project therefore fails instead of
// silently succeeding.
func (h *AdminHandler) VerifyProject(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ctx := c.Request().Context()
	if err := h.Projects.Verify(ctx, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		if errors.Is(err, repository.ErrProjectState) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "project not eligible for verification"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verify project failed"})
	}

	project, err := h.Projects.GetByID(ctx, projectID)
	if err == nil {
		go func() {
			_ = queue_publisher.PublishProjectVerified(context.Background(), queue.ProjectVerifiedEvent{
				ProjectID:  projectID,
				AdminID:    adminID,
				StudentID:  project.StudentID,
				ClientID:   project.ClientID,
				VerifiedAt: time.Now().UTC().Format(time.RFC3339),
			})
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{"project_id": projectID, "status": model.ProjectCompleted, "verified": true})
}

// Analytics handles GET /v1/admin/analytics.
func (h *AdminHandler) Analytics(c echo.Context) error {
	overview, err := h.Stats.GetOverview(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load analytics failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": overview})
}

// ListBlogs handles GET /v1/admin/blogs?status=pending|approved|rejected.
func (h *AdminHandler) ListBlogs(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "":
		status = model.BlogPending
	case model.BlogPending, model.BlogApproved, model.BlogRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	blogs, err := h.Blogs.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load blogs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": blogs})
}

// ApproveBlog handles POST /v1/admin/blogs/:id/approve.
func (h *AdminHandler) ApproveBlog(c echo.Context) error {
	return h.setBlogStatus(c, model.BlogApproved)
}

// RejectBlog handles POST /v1/admin/blogs/:id/reject.
func (h *AdminHandler) RejectBlog(c echo.Context) error {
	return h.setBlogStatus(c, model.BlogRejected)
}

func (h *AdminHandler) setBlogStatus(c echo.Context, status string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}
	if err := h.Blogs.SetStatus(c.Request().Context(), id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "blog not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update blog failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blog_id": id, "status": status})
}
