package id

import (
	"strings"

	"github.com/google/uuid"
)

// UUID returns a random UUID v4 string.
func UUID() string {
	return uuid.NewString()
}

// Short returns an 8-character hex identifier.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
