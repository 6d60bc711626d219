package repository

import (
	"context"
	"database/sql"

	"github.com/cyd0c/linkUp/internal/model"
)

// PaymentRepo records the financial events tied to project approvals.
// Payments have no standalone creation path; CreateTx is only called from
// the approval transaction.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// CreateTx inserts a completed payment inside the approval transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, projectID, payerID, payeeID uint64, amount float64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO payments (project_id, payer_id, payee_id, amount, status) VALUES (?,?,?,?,'completed')",
		projectID, payerID, payeeID, amount)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// MonthlyEarnings sums the completed payments received by a student in the
// current UTC month. Feeds the student dashboard.
func (r *PaymentRepo) MonthlyEarnings(ctx context.Context, payeeID uint64) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments
		 WHERE payee_id=? AND status='completed'
		   AND YEAR(created_at)=YEAR(UTC_TIMESTAMP())
		   AND MONTH(created_at)=MONTH(UTC_TIMESTAMP())`,
		payeeID).Scan(&total)
	return total, err
}

// ListByPayee returns all payments received by an account, newest first.
func (r *PaymentRepo) ListByPayee(ctx context.Context, payeeID uint64) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, project_id, payer_id, payee_id, amount, status, created_at
		 FROM payments WHERE payee_id=? ORDER BY created_at DESC`, payeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.PayerID, &p.PayeeID, &p.Amount, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
