package repository

import (
	"context"
	"database/sql"

	"github.com/cyd0c/linkUp/internal/model"
)

// BlogRepo stores feed posts and their moderation status.
type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

// Create inserts a pending post and returns its ID.
func (r *BlogRepo) Create(ctx context.Context, authorID uint64, title, content string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO blogs (author_id, title, content, status) VALUES (?,?,?,?)",
		authorID, title, content, model.BlogPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetStatus flips a post to approved or rejected. Returns sql.ErrNoRows when
// the post does not exist; repeating the same target status is a no-op.
func (r *BlogRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE blogs SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists uint64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM blogs WHERE id=?", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// ListByStatus returns posts in a moderation state, newest first.
func (r *BlogRepo) ListByStatus(ctx context.Context, status string) ([]model.Blog, error) {
	return r.list(ctx,
		"SELECT id, author_id, title, content, status, created_at FROM blogs WHERE status=? ORDER BY created_at DESC", status)
}

// ListByAuthor returns an account's own posts, newest first, in any state.
func (r *BlogRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Blog, error) {
	return r.list(ctx,
		"SELECT id, author_id, title, content, status, created_at FROM blogs WHERE author_id=? ORDER BY created_at DESC", authorID)
}

func (r *BlogRepo) list(ctx context.Context, query string, args ...any) ([]model.Blog, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	blogs := make([]model.Blog, 0)
	for rows.Next() {
		var b model.Blog
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Content, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}
