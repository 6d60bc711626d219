package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cyd0c/linkUp/internal/config"
	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/repository"
	"github.com/cyd0c/linkUp/internal/storage"
	"github.com/cyd0c/linkUp/internal/utils"
)

// AuthHandler bundles dependencies for registration and session endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Tokens   *repository.TokenRepo
	Uploads  *storage.Store
}

func NewAuthHandler(cfg config.Config, a *repository.AccountRepo, t *repository.TokenRepo, u *storage.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: a, Tokens: t, Uploads: u}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}
type authResp struct {
	User    accountPart `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// Register creates a pending account from a multipart form. Role-specific
// profile fields and an optional identity proof upload are accepted; Admin
// registration is always rejected. No tokens are issued because the account
// cannot log in until an admin approves it.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	role := strings.TrimSpace(c.FormValue("role"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))

	if username == "" || password == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password/email required"})
	}
	if role != model.RoleClient && role != model.RoleStudent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be Client or Student"})
	}

	params := repository.NewAccountParams{
		Username: username,
		Password: password,
		Role:     role,
		Email:    email,
	}
	switch role {
	case model.RoleStudent:
		params.CollegeID = optionalForm(c, "college_id")
	case model.RoleClient:
		params.CompanyName = optionalForm(c, "company_name")
		params.CompanyAddress = optionalForm(c, "company_address")
		params.ContactNumber = optionalForm(c, "contact_number")
		params.Website = optionalForm(c, "website")
	}

	// optional identity proof upload
	if fh, err := c.FormFile("proof"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid proof file"})
		}
		defer src.Close()
		ref, err := h.Uploads.Save(src, fh.Filename)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store proof failed"})
		}
		params.ProofFile = &ref
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, params, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user": accountPart{ID: id, Username: username, Email: email, Role: role, Status: model.AccountPending},
		"note": "awaiting admin approval",
	})
}

func optionalForm(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return nil
	}
	return &v
}

// Login verifies credentials and, only for approved accounts, returns a new
// token pair. Pending and rejected accounts are told to wait rather than
// receiving a generic credential error.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if a.Status != model.AccountApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account awaiting admin approval"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    accountPart{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role, Status: a.Status},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair. An account that lost approval since login cannot refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accountID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	a, err := h.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	if a.Status != model.AccountApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account awaiting admin approval"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, a.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    accountPart{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role, Status: a.Status},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
	})
}

// Logout revokes the refresh token supplied in the body.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's account as seen by the server.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": accountPart{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role, Status: a.Status},
	})
}
