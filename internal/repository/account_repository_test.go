package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyd0c/linkUp/internal/model"
)

func TestRemoveTxArchivesBeforeDeleting(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT username, email, role FROM accounts WHERE id=\\?").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"username", "email", "role"}).
			AddRow("mallory", "mallory@example.com", model.RoleStudent))
	mock.ExpectExec("INSERT INTO removed_users").
		WithArgs("mallory", "mallory@example.com", model.RoleStudent, "policy violation").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM accounts WHERE id=\\?").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.RemoveTx(context.Background(), tx, 9, "policy violation"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveTxMissingAccount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT username, email, role FROM accounts WHERE id=\\?").
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.RemoveTx(context.Background(), tx, 404, "whatever")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScansUneditedProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	// a freshly registered account has never edited its profile, so bio,
	// skills and profile_pic are still NULL
	cols := []string{"id", "username", "email", "password_hash", "role", "status",
		"bio", "skills", "resume", "profile_pic", "proof_file", "college_id",
		"company_name", "company_address", "contact_number", "website", "badge",
		"created_at", "updated_at"}
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id=\\?").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			uint64(7), "bob", "bob@example.com", "hash", model.RoleStudent, model.AccountApproved,
			nil, nil, nil, nil, nil, "C-42",
			nil, nil, nil, nil, nil,
			time.Now(), time.Now()))

	a, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "bob", a.Username)
	assert.Empty(t, a.Bio)
	assert.Empty(t, a.Skills)
	assert.Empty(t, a.ProfilePic)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsernameOfResolvesDanglingReference(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectQuery("SELECT username FROM accounts WHERE id=\\?").
		WithArgs(uint64(9)).
		WillReturnError(sql.ErrNoRows)

	name, err := repo.UsernameOf(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, model.RemovedAccountName, name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(errDuplicate{})

	_, err := repo.Create(context.Background(), NewAccountParams{
		Username: "alice",
		Password: "pw",
		Role:     model.RoleClient,
		Email:    "Alice@Example.com",
	}, 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

type errDuplicate struct{}

func (errDuplicate) Error() string {
	return "Error 1062 (23000): Duplicate entry 'alice@example.com' for key 'accounts.email'"
}
