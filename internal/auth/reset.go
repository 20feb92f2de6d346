package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is the validity window of a password reset token.
const ResetTokenTTL = 15 * time.Minute

// NewResetToken generates a high-entropy one-time reset token and its
// server-side fingerprint. The raw token is delivered out-of-band and never
// stored; only the fingerprint is persisted.
func NewResetToken() (token, fingerprint string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, ResetFingerprint(token), nil
}

// ResetFingerprint derives the lookup fingerprint of a candidate token. A
// deterministic fast hash is used here, not bcrypt: the store must be able
// to look the value up by equality, and the token itself expires within
// ResetTokenTTL.
func ResetFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
