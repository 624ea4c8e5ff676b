package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when no entry exists for a signature.
var ErrNotFound = errors.New("mock not found")

// Reader is the read side of a mock store.
type Reader interface {
	// Get returns the JSON text stored for signature, or ErrNotFound.
	Get(ctx context.Context, signature string) (string, error)

	// All returns a snapshot of every entry.
	All(ctx context.Context) (map[string]string, error)
}

// MockStore defines the interface for storing mock JSON by method signature.
type MockStore interface {
	Reader

	// Put stores or replaces the JSON text for signature.
	Put(ctx context.Context, signature, json string) error

	// Remove deletes the entry for signature. It reports whether one existed.
	Remove(ctx context.Context, signature string) (bool, error)
}

// HasMock reports whether json holds a configured mock.
func HasMock(json string) bool {
	return strings.TrimSpace(json) != ""
}

// Lookup returns the mock text for signature and whether a mock is
// configured. A missing entry is not an error.
func Lookup(ctx context.Context, r Reader, signature string) (string, bool, error) {
	text, err := r.Get(ctx, signature)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, HasMock(text), nil
}
