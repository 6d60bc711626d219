package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/queue"
	"github.com/cyd0c/linkUp/internal/repository"
	queue_publisher "github.com/cyd0c/linkUp/internal/service"
)

// ClientHandler groups the repositories a client needs to post jobs, assign
// applications and approve projects. JWT authentication and the Client role
// check happen in middleware; ownership of the individual job or project is
// verified here against the stored references. The assignment and approval
// flows run inside transactions so their multi-row updates are atomic.
type ClientHandler struct {
	Jobs     *repository.JobRepo
	Projects *repository.ProjectRepo
	Payments *repository.PaymentRepo
	Messages *repository.MessageRepo
}

func NewClientHandler(jobs *repository.JobRepo, projects *repository.ProjectRepo, payments *repository.PaymentRepo, messages *repository.MessageRepo) *ClientHandler {
	if jobs == nil || projects == nil || payments == nil || messages == nil {
		panic("nil repository passed to NewClientHandler")
	}
	return &ClientHandler{Jobs: jobs, Projects: projects, Payments: payments, Messages: messages}
}

// PostJob handles POST /v1/client/jobs. Budget must be a non-negative
// number and title/description must be non-blank.
func (h *ClientHandler) PostJob(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Budget      float64 `json:"budget"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	body.Description = strings.TrimSpace(body.Description)
	if body.Title == "" || body.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}
	if body.Budget < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "budget must be non-negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Jobs.CreateJob(ctx, clientID, body.Title, body.Description, body.Budget)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"job_id": id})
}

// Dashboard handles GET /v1/client/dashboard: the client's jobs and
// projects.
func (h *ClientHandler) Dashboard(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	jobs, err := h.Jobs.ListByClient(ctx, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load jobs failed"})
	}
	projects, err := h.Projects.ListByClient(ctx, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load projects failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": jobs, "projects": projects})
}

// ListApplications handles GET /v1/client/jobs/:id/applications. Only the
// job's owner may see its applications.
func (h *ClientHandler) ListApplications(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	ctx := c.Request().Context()
	job, err := h.Jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	if job.ClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	apps, err := h.Jobs.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load applications failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"job": job, "applications": apps})
}

// AssignApplication handles POST /v1/client/applications/:id/assign. In one
// transaction: the job closes, the chosen application becomes accepted,
// every sibling becomes rejected and a new in_progress project is created.
// A second assignment on the same job fails with 409 instead of producing a
// second project; partial application is never observable.
func (h *ClientHandler) AssignApplication(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	ctx := c.Request().Context()
	tx, err := h.Jobs.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	target, err := h.Jobs.GetAssignTargetTx(ctx, tx, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load application failed"})
	}
	if target.JobClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Jobs.CloseJobTx(ctx, tx, target.JobID); err != nil {
		if errors.Is(err, repository.ErrJobClosed) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "job already closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close job failed"})
	}
	if err := h.Jobs.AcceptApplicationTx(ctx, tx, target.JobID, target.ApplicationID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update applications failed"})
	}
	projectID, err := h.Projects.CreateTx(ctx, tx, target.JobID, target.StudentID, target.JobClientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create project failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"project_id": projectID})
}

// ApproveProject handles POST /v1/client/projects/:id/approve. In one
// transaction: a fresh approval code is generated and stored, the project
// moves to awaiting_code, the payment (amount = job budget, payer = client,
// payee = student, status completed) is recorded and the student is notified
// with the code. Approval is not gated on a prior deliverable: a client may
// approve straight from in_progress, matching how the workflow has always
// behaved.
func (h *ClientHandler) ApproveProject(c echo.Context) error {
	clientID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
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
	if project.ClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	job, err := h.Jobs.GetJob(ctx, project.JobID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}

	code, err := h.Projects.ApproveTx(ctx, tx, projectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve project failed"})
	}
	if _, err := h.Payments.CreateTx(ctx, tx, projectID, clientID, project.StudentID, job.Budget); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
	}
	notice := fmt.Sprintf("Project approved! Approval code: %s", code)
	if err := h.Messages.CreateTx(ctx, tx, clientID, project.StudentID, notice); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "notify student failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// broker failures are logged inside the publisher and never fail the request
	go func() {
		_ = queue_publisher.PublishProjectApproved(context.Background(), queue.ProjectApprovedEvent{
			ProjectID:  projectID,
			JobID:      project.JobID,
			ClientID:   clientID,
			StudentID:  project.StudentID,
			Amount:     job.Budget,
			ApprovedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"project_id":    projectID,
		"status":        "awaiting_code",
		"approval_code": code,
		"amount":        job.Budget,
	})
}

// GetProject handles GET /v1/client/projects/:id.
func (h *ClientHandler) GetProject(c echo.Context) error {
	clientID, err := getUserID(c)
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
	if project.ClientID != clientID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"project": project})
}
