// Package hash fingerprints run inputs.
//
// A fingerprint is the SHA-256 of a canonical encoding of the run parameters,
// so two runs with the same inputs share a fingerprint regardless of where the
// inputs came from (flags, environment or a params file). Parameter files are
// hashed separately so a run record can point at the exact file it used.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Hasher computes content hashes.
type Hasher interface {
	// HashBytes returns the hex hash of data.
	HashBytes(data []byte) string

	// HashFile returns the hex hash of the file at path.
	HashFile(path string) (string, error)
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashBytes returns the SHA-256 of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile streams the file at path through SHA-256.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	sum := sha256.New()
	if _, err := io.Copy(sum, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// Fingerprint hashes the JSON encoding of v. Struct fields encode in
// declaration order, so the result is stable for a given type.
func Fingerprint(h Hasher, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint input: %w", err)
	}
	return h.HashBytes(data), nil
}

// Short returns the first 12 characters of a hash for display.
func Short(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}
