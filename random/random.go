// Package random generates URL-safe random strings for OAuth state and PKCE
// code verifiers.
package random

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Alphabet is the 64 character URL-safe set (RFC 4648 base64url, no padding).
// Every character is also an unreserved PKCE verifier character (RFC 7636 §4.1).
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// ErrInvalidLength is returned for non-positive lengths.
var ErrInvalidLength = errors.New("length must be positive")

// String returns length characters drawn uniformly and independently from
// Alphabet. 256 is a multiple of 64, so masking a random byte to 6 bits keeps
// the distribution uniform without rejection sampling.
func String(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("[random String] %w: %d", ErrInvalidLength, length)
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("[random String] failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = Alphabet[b[i]&63]
	}
	return string(b), nil
}
