// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// ProjectApprovedEvent is published when a client approves a project: the
// approval code has been issued and the payment recorded. Downstream
// consumers can log or trigger analytics without querying the primary
// database. The code itself is deliberately not part of the payload.
type ProjectApprovedEvent struct {
	ProjectID  uint64  `json:"project_id"`
	JobID      uint64  `json:"job_id"`
	ClientID   uint64  `json:"client_id"`
	StudentID  uint64  `json:"student_id"`
	Amount     float64 `json:"amount"`
	ApprovedAt string  `json:"approved_at"`
}

// ProjectVerifiedEvent is published when an admin performs the terminal
// sign-off on a project.
type ProjectVerifiedEvent struct {
	ProjectID  uint64 `json:"project_id"`
	AdminID    uint64 `json:"admin_id"`
	StudentID  uint64 `json:"student_id"`
	ClientID   uint64 `json:"client_id"`
	VerifiedAt string `json:"verified_at"`
}
