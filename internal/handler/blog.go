package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/repository"
)

// BlogHandler covers authoring: any authenticated account can submit a post,
// which stays pending until an admin moderates it.
type BlogHandler struct {
	Blogs *repository.BlogRepo
}

func NewBlogHandler(blogs *repository.BlogRepo) *BlogHandler {
	if blogs == nil {
		panic("nil repository passed to NewBlogHandler")
	}
	return &BlogHandler{Blogs: blogs}
}

type blogReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Post handles POST /v1/blogs.
func (h *BlogHandler) Post(c echo.Context) error {
	authorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req blogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	id, err := h.Blogs.Create(c.Request().Context(), authorID, req.Title, req.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create blog failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"blog_id": id,
		"status":  model.BlogPending,
		"note":    "awaiting moderation",
	})
}

// Mine handles GET /v1/blogs/mine, every post of the caller regardless of
// moderation state.
func (h *BlogHandler) Mine(c echo.Context) error {
	authorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blogs, err := h.Blogs.ListByAuthor(c.Request().Context(), authorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load blogs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": blogs})
}
