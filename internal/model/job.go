package model

import "time"

// Job statuses. A job flips from open to closed exactly once, when one of
// its applications is assigned.
const (
	JobOpen   = "open"
	JobClosed = "closed"
)

// Application statuses. Exactly one application per job ends up accepted;
// all its siblings are rejected in the same transaction.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Job is work posted by a client, open for student applications.
type Job struct {
	ID          uint64
	ClientID    uint64
	Title       string
	Description string
	Budget      float64
	Status      string
	CreatedAt   time.Time
}

// Application is a student's bid on a job. At most one application exists
// per (job, student) pair.
type Application struct {
	ID          uint64
	JobID       uint64
	StudentID   uint64
	CoverLetter string
	Status      string
	CreatedAt   time.Time
}
