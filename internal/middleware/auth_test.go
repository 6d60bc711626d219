package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyd0c/linkUp/internal/utils"
)

const testSecret = "unit-secret"

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}

func doRequest(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, JWTAuth(testSecret))

	rec := doRequest(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, JWTAuth(testSecret))

	rec := doRequest(e, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, JWTAuth(testSecret))

	tok, err := utils.NewAccessToken("other-secret", 1, "Student", 15)
	require.NoError(t, err)
	rec := doRequest(e, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, JWTAuth(testSecret))

	tok, err := utils.NewAccessToken(testSecret, 42, "Client", 15)
	require.NoError(t, err)
	rec := doRequest(e, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"Client"`)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, JWTAuth(testSecret), RequireRole("Admin", "Client"))

	tok, err := utils.NewAccessToken(testSecret, 7, "Admin", 15)
	require.NoError(t, err)
	rec := doRequest(e, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, JWTAuth(testSecret), RequireRole("Admin"))

	tok, err := utils.NewAccessToken(testSecret, 7, "Student", 15)
	require.NoError(t, err)
	rec := doRequest(e, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	e := echo.New()
	e.GET("/protected", okHandler, RequireRole("Admin"))

	rec := doRequest(e, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
