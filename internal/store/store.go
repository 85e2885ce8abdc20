// Package store defines the contract shared by all phonebook backends and the closed set of
// errors they may return.
package store

import (
	"context"

	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
)

// Store owns the collection of phonebook entries.
//
// Implementations must validate name and number before changing anything, must keep the id of
// an entry stable across Replace, and must treat Delete of an absent entry as success.
type Store interface {
	// List returns all entries. The result is never nil.
	List(ctx context.Context) ([]model.Entry, error)

	// Get returns the entry with the given id, ErrNotFound or ErrMalformedID.
	Get(ctx context.Context, id string) (model.Entry, error)

	// Create stores a new entry and returns it with its assigned id.
	Create(ctx context.Context, name string, number string) (model.Entry, error)

	// Replace overwrites name and number of an existing entry and returns the new version.
	Replace(ctx context.Context, id string, name string, number string) (model.Entry, error)

	// Delete removes the entry if present.
	Delete(ctx context.Context, id string) error
}

// ValidateCreate checks the fields of a new entry. Name is checked before number.
func ValidateCreate(name string, number string) error {
	if name == "" {
		return ValidationError("name is missing")
	}
	if number == "" {
		return ValidationError("number is missing")
	}
	return nil
}

// ValidateReplace checks the fields submitted for an update.
func ValidateReplace(name string, number string) error {
	if name == "" || number == "" {
		return ValidationError("name or number is missing")
	}
	return nil
}
