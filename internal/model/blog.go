package model

import "time"

// Blog moderation statuses.
const (
	BlogPending  = "pending"
	BlogApproved = "approved"
	BlogRejected = "rejected"
)

// Blog is a post on the public feed. Posts start pending and become visible
// once an admin approves them.
type Blog struct {
	ID        uint64
	AuthorID  uint64
	Title     string
	Content   string
	Status    string
	CreatedAt time.Time
}
