package model

import "time"

// Project lifecycle statuses. A project moves in_progress -> submitted ->
// awaiting_code -> submitted (code redeemed) -> completed. The submitted
// value is shared by "deliverable uploaded" and "code redeemed, awaiting
// admin verification"; the presence of an approval code tells them apart.
const (
	ProjectInProgress   = "in_progress"
	ProjectSubmitted    = "submitted"
	ProjectAwaitingCode = "awaiting_code"
	ProjectCompleted    = "completed"
)

// Project is the engagement created once a client accepts an application.
// ClientID is denormalized from the job so ownership checks never need a
// join. ApprovalCode is set when the client approves and Verified only ever
// flips to true during admin verification, together with status completed.
type Project struct {
	ID           uint64
	JobID        uint64
	StudentID    uint64
	ClientID     uint64
	Status       string
	Progress     string
	FinalFile    *string
	ApprovalCode *string
	Verified     bool
	CreatedAt    time.Time
}

// Payment records the financial event tied to a client approval. Amounts
// are recorded, never moved; status is always completed at creation.
type Payment struct {
	ID        uint64
	ProjectID uint64
	PayerID   uint64
	PayeeID   uint64
	Amount    float64
	Status    string
	CreatedAt time.Time
}

// Review attaches a 1-5 star rating and free text to a completed project.
type Review struct {
	ID         uint64
	ProjectID  uint64
	ReviewerID uint64
	Rating     int
	Text       string
	CreatedAt  time.Time
}
