// Package id generates identifiers for catalogs, documents and ledger rows.
package id

import (
	"github.com/google/uuid"
)

// ID aliases uuid.UUID so call sites stay free of the library name.
type ID = uuid.UUID

// New returns a UUIDv7. The embedded timestamp keeps inserts roughly
// append-only in B-tree indexes and lets lists sort by creation time
// without a separate created_at index.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to V4.
		return uuid.New()
	}
	return v7
}

// Parse validates and converts a string to an ID.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse panics on invalid input. For fixtures and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero ID.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
