package utils

import "strings"

// ApprovalCodeLen is the length of an issued approval code: 4 random bytes
// hex-encoded and upper-cased.
const ApprovalCodeLen = 8

// NewApprovalCode generates the short code a client hands to a student when
// approving a project. Codes come from the OS random source, never from the
// project ID or clock, so they cannot be predicted.
func NewApprovalCode() (string, error) {
	raw, err := randomHex(4)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(raw), nil
}

// NormalizeApprovalCode prepares a user-submitted code for lookup. Codes are
// stored upper-case, and students tend to paste them with surrounding
// whitespace or in lower case.
func NormalizeApprovalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
