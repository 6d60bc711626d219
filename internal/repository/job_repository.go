package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cyd0c/linkUp/internal/model"
)

// JobRepo provides persistence for jobs and their applications. The
// assignment flow runs across several Tx methods so the handler can wrap
// "close job, accept one application, reject siblings, create project" in a
// single transaction; partial application of that sequence must never be
// observable.
type JobRepo struct{ DB *sql.DB }

func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{DB: db} }

// CreateJob inserts an open job for a client and returns its ID.
func (r *JobRepo) CreateJob(ctx context.Context, clientID uint64, title, description string, budget float64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO jobs (client_id, title, description, budget, status) VALUES (?,?,?,?,?)",
		clientID, title, description, budget, model.JobOpen)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const jobCols = "id, client_id, title, description, budget, status, created_at"

func scanJob(row interface{ Scan(...any) error }) (model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.ClientID, &j.Title, &j.Description, &j.Budget, &j.Status, &j.CreatedAt)
	return j, err
}

// GetJob fetches a job by id.
func (r *JobRepo) GetJob(ctx context.Context, id uint64) (model.Job, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+jobCols+" FROM jobs WHERE id=? LIMIT 1", id)
	return scanJob(row)
}

// ListOpen returns all open jobs, newest first. This feeds the student
// dashboard and the public browse endpoint.
func (r *JobRepo) ListOpen(ctx context.Context) ([]model.Job, error) {
	return r.listJobs(ctx,
		"SELECT "+jobCols+" FROM jobs WHERE status=? ORDER BY created_at DESC", model.JobOpen)
}

// ListByClient returns all jobs posted by a client, newest first.
func (r *JobRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Job, error) {
	return r.listJobs(ctx,
		"SELECT "+jobCols+" FROM jobs WHERE client_id=? ORDER BY created_at DESC", clientID)
}

func (r *JobRepo) listJobs(ctx context.Context, query string, args ...any) ([]model.Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	jobs := make([]model.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CreateApplication inserts a pending application. A student may apply to a
// job at most once; the unique (job_id, student_id) index turns a duplicate
// submission into ErrConflict.
func (r *JobRepo) CreateApplication(ctx context.Context, jobID, studentID uint64, coverLetter string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO applications (job_id, student_id, cover_letter, status) VALUES (?,?,?,?)",
		jobID, studentID, coverLetter, model.ApplicationPending)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListApplicationsByJob returns all applications on a job, oldest first.
func (r *JobRepo) ListApplicationsByJob(ctx context.Context, jobID uint64) ([]model.Application, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, job_id, student_id, cover_letter, status, created_at
		 FROM applications WHERE job_id=? ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps := make([]model.Application, 0)
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.StudentID, &a.CoverLetter, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// AssignTarget is the row the assignment flow locks before mutating:
// the application plus its job's owner. Job status is not carried here;
// CloseJobTx enforces it with its own guard.
type AssignTarget struct {
	ApplicationID uint64
	JobID         uint64
	StudentID     uint64
	JobClientID   uint64
}

// GetAssignTargetTx loads and locks the application and its job inside the
// assignment transaction. Returns sql.ErrNoRows when the application does
// not exist.
func (r *JobRepo) GetAssignTargetTx(ctx context.Context, tx *sql.Tx, applicationID uint64) (AssignTarget, error) {
	var t AssignTarget
	err := tx.QueryRowContext(ctx,
		`SELECT a.id, a.job_id, a.student_id, j.client_id
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = ?
		 FOR UPDATE`, applicationID).
		Scan(&t.ApplicationID, &t.JobID, &t.StudentID, &t.JobClientID)
	return t, err
}

// CloseJobTx flips a job from open to closed. The status guard in the WHERE
// clause makes a concurrent second assignment fail with ErrJobClosed instead
// of producing a second project.
func (r *JobRepo) CloseJobTx(ctx context.Context, tx *sql.Tx, jobID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE jobs SET status=? WHERE id=? AND status=?",
		model.JobClosed, jobID, model.JobOpen)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobClosed
	}
	return nil
}

// AcceptApplicationTx marks the chosen application accepted and every
// sibling on the same job rejected.
func (r *JobRepo) AcceptApplicationTx(ctx context.Context, tx *sql.Tx, jobID, applicationID uint64) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE applications SET status=? WHERE id=?",
		model.ApplicationAccepted, applicationID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE applications SET status=? WHERE job_id=? AND id<>?",
		model.ApplicationRejected, jobID, applicationID)
	return err
}
