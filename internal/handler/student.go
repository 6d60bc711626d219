package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/repository"
	"github.com/cyd0c/linkUp/internal/storage"
)

// StudentHandler groups the repositories a student needs to browse jobs,
// apply, report progress and redeem approval codes. The JWT middleware has
// already established identity and the Student role; methods verify
// ownership of the specific project against its stored student reference.
type StudentHandler struct {
	Accounts *repository.AccountRepo
	Jobs     *repository.JobRepo
	Projects *repository.ProjectRepo
	Payments *repository.PaymentRepo
	Messages *repository.MessageRepo
	Uploads  *storage.Store
}

func NewStudentHandler(accounts *repository.AccountRepo, jobs *repository.JobRepo, projects *repository.ProjectRepo, payments *repository.PaymentRepo, messages *repository.MessageRepo, uploads *storage.Store) *StudentHandler {
	if accounts == nil || jobs == nil || projects == nil || payments == nil || messages == nil || uploads == nil {
		panic("nil dependency passed to NewStudentHandler")
	}
	return &StudentHandler{Accounts: accounts, Jobs: jobs, Projects: projects, Payments: payments, Messages: messages, Uploads: uploads}
}

// Dashboard handles GET /v1/student/dashboard: open jobs, the student's
// projects and their completed earnings for the current month.
func (h *StudentHandler) Dashboard(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	jobs, err := h.Jobs.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load jobs failed"})
	}
	projects, err := h.Projects.ListByStudent(ctx, studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load projects failed"})
	}
	earnings, err := h.Payments.MonthlyEarnings(ctx, studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load earnings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"jobs":             jobs,
		"projects":         projects,
		"monthly_earnings": earnings,
	})
}

// ListPayments handles GET /v1/student/payments, the student's payment
// history.
func (h *StudentHandler) ListPayments(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	payments, err := h.Payments.ListByPayee(c.Request().Context(), studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": payments})
}

// Apply handles POST /v1/student/jobs/:id/apply. A student may apply to a
// job once; a duplicate returns 409.
func (h *StudentHandler) Apply(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	var body struct {
		CoverLetter string `json:"cover_letter"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	if _, err := h.Jobs.GetJob(ctx, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	id, err := h.Jobs.CreateApplication(ctx, jobID, studentID, strings.TrimSpace(body.CoverLetter))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already applied to this job"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create application failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"application_id": id})
}

// UpdateProgress handles POST /v1/student/projects/:id/progress, a
// multipart form with a progress note and an optional deliverable file.
// The note always updates; a file additionally stores its reference and
// moves the project to submitted. The client is notified with a system
// message in the same transaction as the update.
func (h *StudentHandler) UpdateProgress(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	progress := strings.TrimSpace(c.FormValue("progress"))

	// optional deliverable: stored before the transaction so a failed upload
	// leaves the project untouched
	var fileRef *string
	if fh, err := c.FormFile("final_file"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid file"})
		}
		defer src.Close()
		ref, err := h.Uploads.Save(src, fh.Filename)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
		}
		fileRef = &ref
	}

	ctx := c.Request().Context()
	tx, err := h.Projects.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	project, err := h.Projects.GetByIDTx(ctx, tx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	if project.StudentID != studentID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Projects.UpdateProgressTx(ctx, tx, projectID, progress, fileRef); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update project failed"})
	}

	notice := "Progress update: " + progress
	if progress == "" {
		notice = "Progress update: no details"
	}
	if fileRef != nil {
		notice += fmt.Sprintf("\nFinal file uploaded: /static/%s", *fileRef)
	}
	if err := h.Messages.CreateTx(ctx, tx, studentID, project.ClientID, notice); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notify client failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	status := project.Status
	if fileRef != nil {
		status = "submitted"
	}
	return c.JSON(http.StatusOK, echo.Map{"project_id": projectID, "status": status})
}

// SubmitCode handles POST /v1/student/projects/submit-code. The submitted code is
// trimmed and upper-cased, then matched against the caller's own projects
// only. A miss reports a generic invalid-code error with no state change;
// the response never reveals whether any code exists.
func (h *StudentHandler) SubmitCode(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ApprovalCode string `json:"approval_code"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.ApprovalCode) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "approval_code required"})
	}

	ctx := c.Request().Context()
	if err := h.Projects.RedeemCode(ctx, studentID, body.ApprovalCode); err != nil {
		if errors.Is(err, repository.ErrInvalidCode) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invalid code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit code failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "submitted", "note": "awaiting admin verification"})
}

// EditProfile handles PUT /v1/student/profile, a multipart form with bio,
// skills and optional resume/profile picture uploads.
func (h *StudentHandler) EditProfile(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	params := repository.UpdateProfileParams{
		Bio:    strings.TrimSpace(c.FormValue("bio")),
		Skills: strings.TrimSpace(c.FormValue("skills")),
	}
	for field, dst := range map[string]**string{
		"resume":      &params.Resume,
		"profile_pic": &params.ProfilePic,
	} {
		fh, err := c.FormFile(field)
		if err != nil || fh == nil {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + field})
		}
		ref, err := h.Uploads.Save(src, fh.Filename)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store " + field + " failed"})
		}
		*dst = &ref
	}

	ctx := c.Request().Context()
	if err := h.Accounts.UpdateProfile(ctx, studentID, params); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
