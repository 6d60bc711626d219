package repository

import (
	"context"
	"database/sql"

	"github.com/cyd0c/linkUp/internal/model"
)

// Overview aggregates the counts shown on the admin analytics page.
type Overview struct {
	TotalUsers        int      `json:"total_users"`
	TotalStudents     int      `json:"total_students"`
	TotalClients      int      `json:"total_clients"`
	PendingStudents   int      `json:"pending_students"`
	TotalJobs         int      `json:"total_jobs"`
	OpenJobs          int      `json:"open_jobs"`
	ClosedJobs        int      `json:"closed_jobs"`
	TotalProjects     int      `json:"total_projects"`
	CompletedProjects int      `json:"completed_projects"`
	VerifiedProjects  int      `json:"verified_projects"`
	AvgStudentRating  *float64 `json:"avg_student_rating"`
}

// StatsRepo answers the admin analytics queries.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// GetOverview collects platform-wide counts plus the mean of per-student
// average ratings. The rating is nil when no student has a review.
func (r *StatsRepo) GetOverview(ctx context.Context) (Overview, error) {
	var o Overview
	counts := []struct {
		query string
		dst   *int
		args  []any
	}{
		{"SELECT COUNT(*) FROM accounts", &o.TotalUsers, nil},
		{"SELECT COUNT(*) FROM accounts WHERE role=?", &o.TotalStudents, []any{model.RoleStudent}},
		{"SELECT COUNT(*) FROM accounts WHERE role=?", &o.TotalClients, []any{model.RoleClient}},
		{"SELECT COUNT(*) FROM accounts WHERE role=? AND status=?", &o.PendingStudents, []any{model.RoleStudent, model.AccountPending}},
		{"SELECT COUNT(*) FROM jobs", &o.TotalJobs, nil},
		{"SELECT COUNT(*) FROM jobs WHERE status=?", &o.OpenJobs, []any{model.JobOpen}},
		{"SELECT COUNT(*) FROM jobs WHERE status=?", &o.ClosedJobs, []any{model.JobClosed}},
		{"SELECT COUNT(*) FROM projects", &o.TotalProjects, nil},
		{"SELECT COUNT(*) FROM projects WHERE status=?", &o.CompletedProjects, []any{model.ProjectCompleted}},
		{"SELECT COUNT(*) FROM projects WHERE verified=1", &o.VerifiedProjects, nil},
	}
	for _, c := range counts {
		if err := r.DB.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return Overview{}, err
		}
	}
	// mean of per-student averages, matching how the original computed it
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT AVG(s.avg_rating) FROM (
		   SELECT AVG(rv.rating) AS avg_rating
		   FROM reviews rv
		   JOIN projects p ON p.id = rv.project_id
		   GROUP BY p.student_id
		 ) s`).Scan(&avg)
	if err != nil {
		return Overview{}, err
	}
	if avg.Valid {
		o.AvgStudentRating = &avg.Float64
	}
	return o, nil
}
