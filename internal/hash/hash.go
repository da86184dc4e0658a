// Package hash computes content digests used as dedup keys for the
// record logs. The digest is an equality-only cache key, never a
// security boundary.
package hash

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// File returns the lowercase hex SHA-1 digest of the file's content.
// Identical bytes always produce the identical string, regardless of
// path or timestamps.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
