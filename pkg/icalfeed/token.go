package icalfeed

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// FeedToken is an opaque bearer credential granting read-only access to one
// property's exported availability. At most one token is active per
// property.
type FeedToken struct {
	ID         int64
	PropertyID int64
	Token      string
	IsActive   bool
}

// ErrTokenNotFound covers malformed, revoked, and unknown tokens alike so
// the feed endpoint cannot be used to enumerate valid ones.
var ErrTokenNotFound = errors.New("feed token not found")

// generateToken mints 32 bytes of randomness, hex-encoded to 64 characters.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
