package repository

import (
	"context"
	"database/sql"

	"github.com/cyd0c/linkUp/internal/model"
)

// ReviewRepo stores ratings attached to completed projects and answers the
// derived average-rating-per-student read.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review for a project.
func (r *ReviewRepo) Create(ctx context.Context, projectID, reviewerID uint64, rating int, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (project_id, reviewer_id, rating, text) VALUES (?,?,?,?)",
		projectID, reviewerID, rating, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByProject returns a project's reviews, newest first.
func (r *ReviewRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, project_id, reviewer_id, rating, text, created_at
		 FROM reviews WHERE project_id=? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProjectID, &rv.ReviewerID, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// AverageForStudent returns the mean rating across all reviews whose project
// belongs to the student. The pointer is nil when the student has no
// reviews; an average of zero and "no reviews yet" are different answers.
func (r *ReviewRepo) AverageForStudent(ctx context.Context, studentID uint64) (*float64, error) {
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT AVG(rv.rating) FROM reviews rv
		 JOIN projects p ON p.id = rv.project_id
		 WHERE p.student_id=?`, studentID).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
