// Package store persists named economy documents.
//
// Two backends are available:
//   - file: JSON files in a directory, for CLI usage
//   - mongo: a MongoDB collection, for server deployments
//
// Stores hold serialized documents, never live graphs; the codec in
// pkg/economy remains the single place that interprets document bytes.
package store

import (
	"context"
	"strings"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/errors"
)

// Store is the interface for economy document persistence backends.
type Store interface {
	// Save stores a document under name, replacing any previous version.
	Save(ctx context.Context, name string, doc economy.Document) error

	// Load retrieves the document stored under name.
	// Fails with NOT_FOUND if no such document exists.
	Load(ctx context.Context, name string) (economy.Document, error)

	// List returns the names of all stored documents, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes the document stored under name.
	// Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ValidateName rejects names unusable as file names or document keys:
// empty strings, path separators, traversal sequences, and control bytes.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeMalformed, "economy name cannot be empty")
	}
	if len(name) > 128 {
		return errors.New(errors.ErrCodeMalformed, "economy name too long (max 128 characters)")
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return errors.New(errors.ErrCodeMalformed, "economy name contains invalid sequence %q", pattern)
		}
	}
	return nil
}
