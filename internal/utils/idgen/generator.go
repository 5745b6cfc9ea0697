// Package idgen produces collision-resistant public identifiers.
package idgen

import (
	"crypto/rand"
	"fmt"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID returns "<prefix>_<random>" where random is length
// characters drawn from [0-9a-z] using crypto/rand.
func GenerateSecureID(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("id length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return fmt.Sprintf("%s_%s", prefix, string(buf)), nil
}

// ValidateIDFormat reports whether id is "<prefix>_<suffix>" with a non-empty
// suffix drawn from [0-9a-z].
func ValidateIDFormat(id, prefix string) bool {
	head := prefix + "_"
	if len(id) <= len(head) || id[:len(head)] != head {
		return false
	}
	for _, c := range id[len(head):] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
