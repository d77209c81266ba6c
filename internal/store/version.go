package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// versionOf derives a short, stable record-set version from raw content.
func versionOf(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
