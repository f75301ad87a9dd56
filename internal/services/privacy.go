package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Anonymize derives a one-way candidate id from a real identifier such as an
// email. The same identifier always yields the same digest, so candidates
// stay trackable across assessments without exposing who they are.
func Anonymize(identifier string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("%w: identifier cannot be empty", ErrInvalidInput)
	}

	digest := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(digest[:]), nil
}
