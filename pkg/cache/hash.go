package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives a cache key from a namespace and a raw identifier (typically
// a URL). The identifier is hashed so backends never deal with unbounded or
// unsafe key material.
func Key(namespace, raw string) string {
	return namespace + ":" + Hash([]byte(raw))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
