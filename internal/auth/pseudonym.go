// internal/auth/pseudonym.go
package auth

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Pseudonymizer maps session keys (which embed Telegram chat ids) to stable opaque
// labels before they leave the process in action logs and stored results.
type Pseudonymizer struct {
	key []byte
}

// NewPseudonymizer builds a keyed pseudonymizer. An empty secret yields unkeyed hashes,
// which are stable but guessable for small id spaces.
func NewPseudonymizer(secret string) (*Pseudonymizer, error) {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	// validate the key once so Label never fails
	if _, err := blake2b.New(16, key); err != nil {
		return nil, fmt.Errorf("invalid pseudonym key: %w", err)
	}
	return &Pseudonymizer{key: key}, nil
}

// Label returns a 32 hex char pseudonym for sessionKey.
func (p *Pseudonymizer) Label(sessionKey string) string {
	h, _ := blake2b.New(16, p.key)
	h.Write([]byte(sessionKey))
	return hex.EncodeToString(h.Sum(nil))
}
