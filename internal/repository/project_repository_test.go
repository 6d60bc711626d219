package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/utils"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRedeemCodeNormalizesAndScopesByStudent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE projects SET status=? WHERE student_id=? AND approval_code=? AND verified=0")).
		WithArgs(model.ProjectSubmitted, uint64(5), "AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RedeemCode(context.Background(), 5, "  ab12cd34 ")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCodeCannotReopenVerifiedProject(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	// the project was verified and completed; its code is still stored, but
	// the verified=0 guard must keep the resubmission from matching
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE projects SET status=? WHERE student_id=? AND approval_code=? AND verified=0")).
		WithArgs(model.ProjectSubmitted, uint64(5), "AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RedeemCode(context.Background(), 5, "AB12CD34")
	assert.ErrorIs(t, err, ErrInvalidCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCodeUnknownCodeIsInvalid(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	// the code exists but belongs to a different student: zero rows match
	mock.ExpectExec("UPDATE projects SET status=\\?").
		WithArgs(model.ProjectSubmitted, uint64(99), "AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RedeemCode(context.Background(), 99, "AB12CD34")
	assert.ErrorIs(t, err, ErrInvalidCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCodeEmptyInputSkipsDatabase(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	err := repo.RedeemCode(context.Background(), 5, "   ")
	assert.ErrorIs(t, err, ErrInvalidCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyCompletesEligibleProject(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	mock.ExpectExec("UPDATE projects SET verified=1, status=\\?").
		WithArgs(model.ProjectCompleted, uint64(3), model.ProjectSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Verify(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyIneligibleProjectIsStateError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	// project exists but was already verified: the guarded update misses
	mock.ExpectExec("UPDATE projects SET verified=1, status=\\?").
		WithArgs(model.ProjectCompleted, uint64(3), model.ProjectSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM projects WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	err := repo.Verify(context.Background(), 3)
	assert.ErrorIs(t, err, ErrProjectState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyMissingProject(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	mock.ExpectExec("UPDATE projects SET verified=1, status=\\?").
		WithArgs(model.ProjectCompleted, uint64(404), model.ProjectSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM projects WHERE id=?")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	err := repo.Verify(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveTxIssuesCodeAndAwaitsIt(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProjectRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE projects SET status=\\?, approval_code=\\?").
		WithArgs(model.ProjectAwaitingCode, sqlmock.AnyArg(), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)
	code, err := repo.ApproveTx(context.Background(), tx, 8)
	require.NoError(t, err)
	assert.Len(t, code, utils.ApprovalCodeLen)
	assert.Equal(t, utils.NormalizeApprovalCode(code), code)
	require.NoError(t, mock.ExpectationsWereMet())
}
