package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// VerificationTokenBytes is the entropy of email verification tokens.
const VerificationTokenBytes = 32

var randomRead = rand.Read

// GenerateRandomToken returns length random bytes, hex encoded.
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateVerificationToken returns a 64-character token for email links.
func GenerateVerificationToken() (string, error) {
	return GenerateRandomToken(VerificationTokenBytes)
}

// TokensEqual compares tokens in constant time.
func TokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
