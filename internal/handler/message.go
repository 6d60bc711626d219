package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/repository"
)

// MessageHandler serves the per-project message thread. Only the project's
// client and student may read or post; anyone else gets 403 even with a
// valid session.
type MessageHandler struct {
	Accounts *repository.AccountRepo
	Projects *repository.ProjectRepo
	Messages *repository.MessageRepo
}

func NewMessageHandler(accounts *repository.AccountRepo, projects *repository.ProjectRepo, messages *repository.MessageRepo) *MessageHandler {
	if accounts == nil || projects == nil || messages == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{Accounts: accounts, Projects: projects, Messages: messages}
}

type messageItem struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	ReceiverID uint64    `json:"receiver_id"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// Post handles POST /v1/projects/:id/messages. The receiver is always the
// other party of the project; blank text is rejected.
func (h *MessageHandler) Post(c echo.Context) error {
	senderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message text is required"})
	}

	ctx := c.Request().Context()
	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
	}
	var receiverID uint64
	switch senderID {
	case project.ClientID:
		receiverID = project.StudentID
	case project.StudentID:
		receiverID = project.ClientID
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	id, err := h.Messages.Create(ctx, senderID, receiverID, text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send message failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message_id": id})
}

// List handles GET /v1/projects/:id/messages: every message exchanged
// between the project's client and student, oldest first. Sender names of
// removed accounts resolve to a placeholder instead of failing.
func (h *MessageHandler) List(c echo.Context) error {
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
	if callerID != project.ClientID && callerID != project.StudentID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	msgs, err := h.Messages.ListBetween(ctx, project.ClientID, project.StudentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load messages failed"})
	}

	// resolve the two sender names once; either may be a dangling reference
	names := make(map[uint64]string, 2)
	for _, id := range []uint64{project.ClientID, project.StudentID} {
		name, err := h.Accounts.UsernameOf(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load accounts failed"})
		}
		names[id] = name
	}

	items := make([]messageItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, messageItem{
			ID:         m.ID,
			SenderID:   m.SenderID,
			SenderName: names[m.SenderID],
			ReceiverID: m.ReceiverID,
			Text:       m.Text,
			Timestamp:  m.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
