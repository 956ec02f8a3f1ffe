package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken returns a 32-byte random hex token, used for OAuth
// state parameters.
func GenerateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
