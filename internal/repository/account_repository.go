package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/utils"
)

// AccountRepo provides persistence for accounts and the removed_users
// archive. Account status is only ever mutated through SetStatus (admin
// approval flow) or RemoveTx (archive-then-delete).
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// NewAccountParams carries the registration form fields. Role-specific
// fields stay nil for the other role.
type NewAccountParams struct {
	Username       string
	Password       string
	Role           string
	Email          string
	CollegeID      *string
	CompanyName    *string
	CompanyAddress *string
	ContactNumber  *string
	Website        *string
	ProofFile      *string
}

// Create inserts a pending account and returns its ID. The password is
// hashed here so a plain password never crosses the repository boundary.
func (r *AccountRepo) Create(ctx context.Context, p NewAccountParams, cost int) (uint64, error) {
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return 0, err
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO accounts
		 (username, email, password_hash, role, status, college_id, company_name, company_address, contact_number, website, proof_file)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.Username, email, hash, p.Role, model.AccountPending,
		p.CollegeID, p.CompanyName, p.CompanyAddress, p.ContactNumber, p.Website, p.ProofFile)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const accountCols = `id, username, email, password_hash, role, status, bio, skills,
	resume, profile_pic, proof_file, college_id, company_name, company_address,
	contact_number, website, badge, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	// bio/skills/profile_pic stay NULL until the first profile edit
	var bio, skills, pic sql.NullString
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.Status,
		&bio, &skills, &a.Resume, &pic, &a.ProofFile, &a.CollegeID,
		&a.CompanyName, &a.CompanyAddress, &a.ContactNumber, &a.Website, &a.Badge,
		&a.CreatedAt, &a.UpdatedAt)
	a.Bio = bio.String
	a.Skills = skills.String
	a.ProfilePic = pic.String
	return a, err
}

// GetByUsername fetches an account by username. Usernames are not unique;
// login matches the first row like the original system did.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE username=? LIMIT 1", username)
	return scanAccount(row)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id=? LIMIT 1", id)
	return scanAccount(row)
}

// SetStatus flips an account to approved or rejected. Repeating the same
// target status is a no-op, which makes admin approval idempotent.
func (r *AccountRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// distinguish "no such account" from "already in target state"
		var exists uint64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM accounts WHERE id=?", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProfileParams carries the editable profile fields. Nil file refs
// leave the stored value untouched.
type UpdateProfileParams struct {
	Bio        string
	Skills     string
	Resume     *string
	ProfilePic *string
}

// UpdateProfile updates bio/skills and, when new uploads were supplied,
// the resume and profile picture references.
func (r *AccountRepo) UpdateProfile(ctx context.Context, id uint64, p UpdateProfileParams) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE accounts SET bio=?, skills=?,
		 resume=COALESCE(?, resume), profile_pic=COALESCE(?, profile_pic)
		 WHERE id=?`,
		p.Bio, p.Skills, p.Resume, p.ProfilePic, id)
	return err
}

// ListPending returns accounts awaiting admin approval, oldest first.
func (r *AccountRepo) ListPending(ctx context.Context) ([]model.Account, error) {
	return r.listByStatus(ctx, model.AccountPending)
}

func (r *AccountRepo) listByStatus(ctx context.Context, status string) ([]model.Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE status=? ORDER BY created_at ASC", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	accounts := make([]model.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// RemoveTx archives the account into removed_users and hard-deletes the live
// row inside the provided transaction. Rows elsewhere that reference the
// account become dangling on purpose; reads resolve them to a placeholder.
func (r *AccountRepo) RemoveTx(ctx context.Context, tx *sql.Tx, id uint64, reason string) error {
	var username, email, role string
	err := tx.QueryRowContext(ctx,
		"SELECT username, email, role FROM accounts WHERE id=?", id).
		Scan(&username, &email, &role)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO removed_users (username, email, role, reason) VALUES (?,?,?,?)",
		username, email, role, reason); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id)
	return err
}

// ListRemoved returns the archival records, newest removal first.
func (r *AccountRepo) ListRemoved(ctx context.Context) ([]model.RemovedUser, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, email, role, reason, removed_at
		 FROM removed_users ORDER BY removed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	removed := make([]model.RemovedUser, 0)
	for rows.Next() {
		var u model.RemovedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Reason, &u.RemovedAt); err != nil {
			return nil, err
		}
		removed = append(removed, u)
	}
	return removed, rows.Err()
}

// UsernameOf resolves an account ID to its username, substituting the
// removed-account placeholder for dangling references.
func (r *AccountRepo) UsernameOf(ctx context.Context, id uint64) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT username FROM accounts WHERE id=?", id).Scan(&name)
	if err == sql.ErrNoRows {
		return model.RemovedAccountName, nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
