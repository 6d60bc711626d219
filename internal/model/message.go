package model

import "time"

// Message is an append-only row in the conversation between a project's
// client and student. Messages carry no project reference; threads are
// reconstructed from the (sender, receiver) identity pair. System-generated
// notifications (progress updates, approval codes) are ordinary rows
// distinguishable only by content.
type Message struct {
	ID         uint64
	SenderID   uint64
	ReceiverID uint64
	Text       string
	CreatedAt  time.Time
}
