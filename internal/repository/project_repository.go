package repository

import (
	"context"
	"database/sql"

	"github.com/cyd0c/linkUp/internal/model"
	"github.com/cyd0c/linkUp/internal/utils"
)

// ProjectRepo provides persistence for projects and their lifecycle
// transitions: in_progress -> submitted -> awaiting_code -> submitted ->
// completed. Transitions that must be atomic with other writes (payment
// creation, notification messages) are exposed as Tx methods; the handler
// owns the transaction.
type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

// CreateTx inserts a new in_progress project for an accepted application.
// The client ID is denormalized from the job so later ownership checks skip
// the join.
func (r *ProjectRepo) CreateTx(ctx context.Context, tx *sql.Tx, jobID, studentID, clientID uint64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO projects (job_id, student_id, client_id, status) VALUES (?,?,?,?)",
		jobID, studentID, clientID, model.ProjectInProgress)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const projectCols = "id, job_id, student_id, client_id, status, progress, final_file, approval_code, verified, created_at"

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	var progress sql.NullString
	err := row.Scan(&p.ID, &p.JobID, &p.StudentID, &p.ClientID, &p.Status,
		&progress, &p.FinalFile, &p.ApprovalCode, &p.Verified, &p.CreatedAt)
	p.Progress = progress.String
	return p, err
}

// GetByID fetches a project by id.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id=? LIMIT 1", id)
	return scanProject(row)
}

// GetByIDTx is GetByID inside a transaction, with a row lock so concurrent
// transitions on the same project serialize.
func (r *ProjectRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Project, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id=? FOR UPDATE", id)
	return scanProject(row)
}

// ListByStudent returns a student's projects, newest first.
func (r *ProjectRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.Project, error) {
	return r.list(ctx,
		"SELECT "+projectCols+" FROM projects WHERE student_id=? ORDER BY created_at DESC", studentID)
}

// ListByClient returns a client's projects, newest first.
func (r *ProjectRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Project, error) {
	return r.list(ctx,
		"SELECT "+projectCols+" FROM projects WHERE client_id=? ORDER BY created_at DESC", clientID)
}

// ListVerifiedByStudent returns the verified projects shown on a student's
// public portfolio.
func (r *ProjectRepo) ListVerifiedByStudent(ctx context.Context, studentID uint64) ([]model.Project, error) {
	return r.list(ctx,
		"SELECT "+projectCols+" FROM projects WHERE student_id=? AND verified=1 ORDER BY created_at DESC", studentID)
}

// ListVerifiable returns projects eligible for admin verification: a code
// has been issued, the student redeemed it (status back to submitted) and no
// admin has signed off yet.
func (r *ProjectRepo) ListVerifiable(ctx context.Context) ([]model.Project, error) {
	return r.list(ctx,
		`SELECT `+projectCols+` FROM projects
		 WHERE approval_code IS NOT NULL AND verified=0 AND status=?
		 ORDER BY created_at ASC`, model.ProjectSubmitted)
}

func (r *ProjectRepo) list(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProgressTx stores a progress note and, when a deliverable reference
// is supplied, records it and moves the project to submitted. Without a file
// the status is left untouched.
func (r *ProjectRepo) UpdateProgressTx(ctx context.Context, tx *sql.Tx, projectID uint64, progress string, finalFile *string) error {
	if finalFile != nil {
		_, err := tx.ExecContext(ctx,
			"UPDATE projects SET progress=?, final_file=?, status=? WHERE id=?",
			progress, *finalFile, model.ProjectSubmitted, projectID)
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE projects SET progress=? WHERE id=?", progress, projectID)
	return err
}

// ApproveTx generates a fresh approval code, stores it and moves the project
// to awaiting_code. The caller records the payment in the same transaction
// so a code never exists without its payment or vice versa.
func (r *ProjectRepo) ApproveTx(ctx context.Context, tx *sql.Tx, projectID uint64) (string, error) {
	code, err := utils.NewApprovalCode()
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE projects SET status=?, approval_code=? WHERE id=?",
		model.ProjectAwaitingCode, code, projectID)
	if err != nil {
		return "", err
	}
	return code, nil
}

// RedeemCode looks up the project owned by the student whose stored approval
// code equals the normalized submitted code and flips it to submitted,
// signaling readiness for admin verification. The lookup is scoped by
// student identity, not the code value alone: guessing another project's
// code does nothing. The code survives verification, so the verified=0
// guard keeps a resubmission from pulling a completed project back out of
// its terminal state. A miss returns ErrInvalidCode with no state change
// and no hint about which codes exist.
func (r *ProjectRepo) RedeemCode(ctx context.Context, studentID uint64, code string) error {
	code = utils.NormalizeApprovalCode(code)
	if code == "" {
		return ErrInvalidCode
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE projects SET status=? WHERE student_id=? AND approval_code=? AND verified=0",
		model.ProjectSubmitted, studentID, code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidCode
	}
	return nil
}

// Verify performs the admin's terminal sign-off. The guards in the WHERE
// clause enforce the preconditions in one statement: a code must have been
// issued, the project must not already be verified, and the student must
// have redeemed the code (status submitted). Any precondition failure on an
// existing project surfaces as ErrProjectState; a missing project as
// sql.ErrNoRows.
func (r *ProjectRepo) Verify(ctx context.Context, projectID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE projects SET verified=1, status=?
		 WHERE id=? AND approval_code IS NOT NULL AND verified=0 AND status=?`,
		model.ProjectCompleted, projectID, model.ProjectSubmitted)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists uint64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM projects WHERE id=?", projectID).Scan(&exists); err != nil {
		return err // sql.ErrNoRows when the project does not exist
	}
	return ErrProjectState
}
