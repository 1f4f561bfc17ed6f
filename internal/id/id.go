package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefixes for the record kinds the chapter keeps.
const (
	PrefixImport    = "import"
	PrefixRequest   = "tx"
	PrefixCommittee = "cmt"
)

// Generator returns a fresh identifier for a record kind.
type Generator func(prefix string) string

// New returns an ID like "import-0f8c3b9e-...".
func New(prefix string) string {
	return FormatID(prefix, uuid.New())
}

// FormatID joins a prefix and a UUID.
func FormatID(prefix string, u uuid.UUID) string {
	return prefix + "-" + u.String()
}

// ParseID splits an ID into its prefix and UUID.
func ParseID(s string) (prefix string, u uuid.UUID, err error) {
	// UUIDs contain dashes, so split on the first one only.
	prefix, rest, ok := strings.Cut(s, "-")
	if !ok || prefix == "" {
		return "", uuid.Nil, fmt.Errorf("invalid ID format: %q", s)
	}

	u, err = uuid.Parse(rest)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("invalid UUID in ID %q: %w", s, err)
	}
	return prefix, u, nil
}

// HasPrefix reports whether s is a well-formed ID of the given kind.
func HasPrefix(s, prefix string) bool {
	p, _, err := ParseID(s)
	return err == nil && p == prefix
}

// Sequence returns a Generator that yields "<prefix>-<n>" with n counting
// from 1. Tests use it to get stable IDs.
func Sequence() Generator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
