package store

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no document is stored under the
	// requested name.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidName is returned for document names the store cannot
	// accept. Names become file names, URL path segments and database
	// keys, so the character set is deliberately narrow.
	ErrInvalidName = errors.New("invalid document name")
)

// Store is the interface for document storage backends. Stores hold raw
// document bytes keyed by name; they never interpret the content, which
// keeps every backend format-agnostic (JSON, YAML and HCL documents all
// pass through unchanged).
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the document stored under name.
	// Returns ErrNotFound if no such document exists.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put stores a document under name, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes the document stored under name.
	// Returns ErrNotFound if no such document exists.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored documents in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// ValidateName checks that a document name is usable as a storage key:
// non-empty, at most 128 bytes, and limited to letters, digits, '-', '_'
// and '.'. Names consisting only of dots are rejected because they
// collide with directory entries on the file backend.
func ValidateName(name string) error {
	if name == "" || len(name) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	dotsOnly := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			dotsOnly = false
		case r == '-', r == '_':
			dotsOnly = false
		case r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	if dotsOnly {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
