package repository

import (
	"context"
	"database/sql"

	"github.com/cyd0c/linkUp/internal/model"
)

// MessageRepo stores the append-only message log. Rows are never updated or
// deleted. Messages carry no project reference; a project's thread is the
// set of rows exchanged between its client and student in either direction.
// Two projects shared by the same client/student pair would therefore merge
// threads, a known modeling gap preserved from the original behavior.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create appends a message.
func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID uint64, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, message_text) VALUES (?,?,?)",
		senderID, receiverID, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateTx appends a message inside a transaction, used when a notification
// must commit atomically with the state change it describes.
func (r *MessageRepo) CreateTx(ctx context.Context, tx *sql.Tx, senderID, receiverID uint64, text string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, message_text) VALUES (?,?,?)",
		senderID, receiverID, text)
	return err
}

// ListBetween returns every message exchanged between the two accounts,
// oldest first, regardless of which one is sender on each row.
func (r *MessageRepo) ListBetween(ctx context.Context, a, b uint64) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, message_text, created_at
		 FROM messages
		 WHERE (sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?)
		 ORDER BY created_at ASC`,
		a, b, b, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
