package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/repository"
	"github.com/cyd0c/linkUp/internal/storage"
)

func newStudentHandler(t *testing.T) (*StudentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	uploads, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewStudentHandler(
		repository.NewAccountRepo(db),
		repository.NewJobRepo(db),
		repository.NewProjectRepo(db),
		repository.NewPaymentRepo(db),
		repository.NewMessageRepo(db),
		uploads,
	), mock
}

func jsonContext(t *testing.T, method, path, body string, userID float64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", userID) // JWT numeric claims decode as float64
	c.Set("role", model.RoleStudent)
	return c, rec
}

func TestSubmitCodeRedeemsOwnProject(t *testing.T) {
	h, mock := newStudentHandler(t)

	mock.ExpectExec("UPDATE projects SET status=\\? WHERE student_id=\\? AND approval_code=\\?").
		WithArgs(model.ProjectSubmitted, uint64(5), "AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := jsonContext(t, http.MethodPost, "/v1/student/projects/submit-code",
		`{"approval_code":" ab12cd34 "}`, 5)
	require.NoError(t, h.SubmitCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "awaiting admin verification")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitCodeWrongStudentGets404(t *testing.T) {
	h, mock := newStudentHandler(t)

	mock.ExpectExec("UPDATE projects SET status=\\?").
		WithArgs(model.ProjectSubmitted, uint64(6), "AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := jsonContext(t, http.MethodPost, "/v1/student/projects/submit-code",
		`{"approval_code":"AB12CD34"}`, 6)
	require.NoError(t, h.SubmitCode(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid code")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitCodeRequiresCode(t *testing.T) {
	h, mock := newStudentHandler(t)

	c, rec := jsonContext(t, http.MethodPost, "/v1/student/projects/submit-code",
		`{"approval_code":""}`, 5)
	require.NoError(t, h.SubmitCode(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
