package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize canonicalizes a raw address for cache keying: trimmed and
// lowercased.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Fingerprint returns the hex SHA-256 of a normalized address. Deterministic
// and collision-resistant; used as the cache's unique key.
func Fingerprint(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
