package ir

import (
	"fmt"

	"github.com/roach88/jutus/internal/canonical"
)

// Fingerprint computes a content hash of a node tree. Structurally equal trees
// share a fingerprint regardless of how they were built or decoded.
func Fingerprint(n Node) (string, error) {
	m, err := EncodeNode(n)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return canonical.Hash(canonical.DomainIR, m)
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the tree is known to be well formed.
func MustFingerprint(n Node) string {
	h, err := Fingerprint(n)
	if err != nil {
		panic(err)
	}
	return h
}
