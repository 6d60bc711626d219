package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain password with bcrypt at the configured cost.
// The cost comes from config so tests can run with a cheap one.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant-time; a mismatch and a malformed hash both
// read as false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
