package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the hex SHA-256 of the parts joined with ":".
func Hash(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}
