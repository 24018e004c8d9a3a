package internal

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const verificationTokenBytes = 20

// NewVerificationToken returns a hex-encoded random token stored on the
// user record and compared by equality during email verification.
func NewVerificationToken() (string, error) {
	raw := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// TokensEqual compares two opaque tokens in constant time.
func TokensEqual(a, b string) bool {
	if len(a) != len(b) || a == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
