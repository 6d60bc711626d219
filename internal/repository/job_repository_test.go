package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyd0c/linkUp/internal/model"
)

func TestCloseJobTxClosesOpenJob(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET status=\\? WHERE id=\\? AND status=\\?").
		WithArgs(model.JobClosed, uint64(1), model.JobOpen).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CloseJobTx(context.Background(), tx, 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseJobTxSecondAssignmentLoses(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepo(db)

	// a concurrent transaction already flipped the job to closed
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE jobs SET status=\\? WHERE id=\\? AND status=\\?").
		WithArgs(model.JobClosed, uint64(1), model.JobOpen).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.CloseJobTx(context.Background(), tx, 1)
	assert.ErrorIs(t, err, ErrJobClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptApplicationTxRejectsSiblings(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications SET status=\\? WHERE id=\\?").
		WithArgs(model.ApplicationAccepted, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE applications SET status=\\? WHERE job_id=\\? AND id<>\\?").
		WithArgs(model.ApplicationRejected, uint64(2), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.AcceptApplicationTx(context.Background(), tx, 2, 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssignTargetTxLocksApplicationAndOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT a.id, a.job_id, a.student_id, j.client_id
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = ?
		 FOR UPDATE`)).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "student_id", "client_id"}).
			AddRow(uint64(7), uint64(2), uint64(5), uint64(3)))

	tx, err := db.Begin()
	require.NoError(t, err)
	target, err := repo.GetAssignTargetTx(context.Background(), tx, 7)
	require.NoError(t, err)
	assert.Equal(t, AssignTarget{ApplicationID: 7, JobID: 2, StudentID: 5, JobClientID: 3}, target)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationDuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewJobRepo(db)

	mock.ExpectExec("INSERT INTO applications").
		WithArgs(uint64(2), uint64(7), "cover", model.ApplicationPending).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '2-7' for key 'uniq_job_student'"))

	_, err := repo.CreateApplication(context.Background(), 2, 7, "cover")
	assert.ErrorIs(t, err, ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
