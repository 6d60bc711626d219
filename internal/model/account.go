package model

import "time"

// Roles an account can hold. Admin accounts are created out-of-band by the
// createadmin command; registration only accepts Client and Student.
const (
	RoleAdmin   = "Admin"
	RoleClient  = "Client"
	RoleStudent = "Student"
)

// Approval statuses for an account. Only approved accounts may log in;
// status is mutated exclusively by an admin.
const (
	AccountPending  = "pending"
	AccountApproved = "approved"
	AccountRejected = "rejected"
)

// Account represents a row in the `accounts` table. The json tags are
// omitted because these structs are used by the repository layer; handlers
// define separate response types with appropriate tags.
//
// Fields:
//  ID             – primary key identifier.
//  Username       – display name, not unique.
//  Email          – unique email address.
//  PasswordHash   – bcrypt hashed password.
//  Role           – Admin, Client or Student.
//  Status         – pending, approved or rejected.
//  Bio, Skills    – free-text profile attributes.
//  Resume         – opaque path of an uploaded resume (students).
//  ProfilePic     – opaque path of the avatar image.
//  ProofFile      – opaque path of the uploaded identity proof.
//  CollegeID      – student-specific identifier.
//  CompanyName..Website – client-specific company attributes.
//  Badge          – optional badge label granted by an admin.
type Account struct {
	ID             uint64
	Username       string
	Email          string
	PasswordHash   string
	Role           string
	Status         string
	Bio            string
	Skills         string
	Resume         *string
	ProfilePic     string
	ProofFile      *string
	CollegeID      *string
	CompanyName    *string
	CompanyAddress *string
	ContactNumber  *string
	Website        *string
	Badge          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RemovedAccountName is the placeholder shown wherever a dangling reference
// to a hard-deleted account is read back.
const RemovedAccountName = "removed account"

// RemovedUser archives the identifying fields of an account at the moment an
// admin deletes it. The live row is gone afterwards; this snapshot is all
// that remains.
type RemovedUser struct {
	ID        uint64
	Username  string
	Email     string
	Role      string
	Reason    string
	RemovedAt time.Time
}

// RefreshToken models an entry in the `refresh_tokens` table. The plain
// token is never stored, only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64
	AccountID uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
