package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/repository"
)

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAdminHandler(
		repository.NewAccountRepo(db),
		repository.NewTokenRepo(db),
		repository.NewProjectRepo(db),
		repository.NewReviewRepo(db),
		repository.NewBlogRepo(db),
		repository.NewStatsRepo(db),
	), mock
}

func adminContext(t *testing.T, method, path, paramName, paramValue string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", float64(1))
	c.Set("role", model.RoleAdmin)
	if paramName != "" {
		c.SetParamNames(paramName)
		c.SetParamValues(paramValue)
	}
	return c, rec
}

func TestVerifyProjectIneligibleIsConflict(t *testing.T) {
	h, mock := newAdminHandler(t)

	// project exists but already completed: the guarded update misses
	mock.ExpectExec("UPDATE projects SET verified=1, status=\\?").
		WithArgs(model.ProjectCompleted, uint64(3), model.ProjectSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM projects WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	c, rec := adminContext(t, http.MethodPost, "/v1/admin/projects/3/verify", "id", "3")
	require.NoError(t, h.VerifyProject(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyProjectMissingIs404(t *testing.T) {
	h, mock := newAdminHandler(t)

	mock.ExpectExec("UPDATE projects SET verified=1, status=\\?").
		WithArgs(model.ProjectCompleted, uint64(404), model.ProjectSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM projects WHERE id=?")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	c, rec := adminContext(t, http.MethodPost, "/v1/admin/projects/404/verify", "id", "404")
	require.NoError(t, h.VerifyProject(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveUserIsIdempotent(t *testing.T) {
	h, mock := newAdminHandler(t)

	// first call flips the row
	mock.ExpectExec("UPDATE accounts SET status=\\? WHERE id=\\?").
		WithArgs(model.AccountApproved, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// second call matches zero rows; the follow-up lookup confirms existence
	mock.ExpectExec("UPDATE accounts SET status=\\? WHERE id=\\?").
		WithArgs(model.AccountApproved, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM accounts WHERE id=?")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	for i := 0; i < 2; i++ {
		c, rec := adminContext(t, http.MethodPost, "/v1/admin/users/9/approve", "id", "9")
		require.NoError(t, h.ApproveUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveUserMissingIs404(t *testing.T) {
	h, mock := newAdminHandler(t)

	mock.ExpectExec("UPDATE accounts SET status=\\? WHERE id=\\?").
		WithArgs(model.AccountApproved, uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM accounts WHERE id=?")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	c, rec := adminContext(t, http.MethodPost, "/v1/admin/users/404/approve", "id", "404")
	require.NoError(t, h.ApproveUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
