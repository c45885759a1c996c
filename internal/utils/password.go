package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret returns a bcrypt hash of plain using the given cost.
func HashSecret(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SecretMatches compares a stored secret with the one presented at sign-in.
// hashed says how the secret was stored: bcrypt hashes are verified with
// bcrypt, anything else is compared as given in constant time. The stored
// value's shape is never used to decide.
func SecretMatches(stored, presented string, hashed bool) bool {
	if hashed {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
