package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable hex identifier for an opaque caller-supplied key.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortHash is the first 12 hex characters of HashKey, for log correlation.
func ShortHash(s string) string {
	return HashKey(s)[:12]
}
