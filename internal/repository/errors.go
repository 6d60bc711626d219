// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish failure
// scenarios: ErrConflict and the state errors map to HTTP 409,
// ErrInvalidCode to a rejected code redemption that must not leak whether
// any code exists. Ownership failures never surface here; handlers check
// the stored client/student reference themselves and answer 403 directly.
package repository

import "errors"

// ErrConflict is returned when a write cannot proceed because of an existing
// row, such as a second application by the same student on the same job.
var ErrConflict = errors.New("conflict")

// ErrJobClosed is returned when an assignment is attempted on a job that has
// already been closed by a previous assignment.
var ErrJobClosed = errors.New("job already closed")

// ErrProjectState is returned when a project transition is invalid for the
// project's current status, e.g. verifying an unsubmitted or already
// verified project.
var ErrProjectState = errors.New("invalid project state")

// ErrInvalidCode is returned when an approval code submitted by a student
// does not match any project owned by that student. The message is
// deliberately generic.
var ErrInvalidCode = errors.New("invalid code")

// ErrEmailExists is returned when registration collides with an existing
// email address.
var ErrEmailExists = errors.New("email already exists")
