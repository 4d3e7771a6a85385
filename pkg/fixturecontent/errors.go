package fixturecontent

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrItemNotFound indicates an item was not found
	ErrItemNotFound = errors.New("item not found")

	// ErrParentNotFound indicates the parent of a new item was not found
	ErrParentNotFound = errors.New("parent item not found")

	// ErrItemExists indicates an item with the same id already exists
	ErrItemExists = errors.New("item already exists")

	// ErrBlobNotFound indicates a blob was not found
	ErrBlobNotFound = errors.New("blob not found")

	// ErrMalformedID indicates identifier text could not be parsed
	ErrMalformedID = errors.New("malformed identifier")

	// ErrMalformedRecord indicates a fixture entry could not be read
	ErrMalformedRecord = errors.New("malformed fixture record")

	// ErrSourceNotFound indicates a fixture source location does not exist
	ErrSourceNotFound = errors.New("fixture source not found")

	// ErrUnsupportedSource indicates no loader handles a source location
	ErrUnsupportedSource = errors.New("unsupported fixture source")

	// ErrStoreRequired indicates a provider was built without a store
	ErrStoreRequired = errors.New("content store is required")
)

// ItemError represents an error related to item operations
type ItemError struct {
	ItemID ID
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// LoadError represents a failure to read a fixture source or one of its
// entries. Entry is empty when the whole source failed.
type LoadError struct {
	Source string
	Entry  string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("loading fixtures from %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("loading fixture entry %s from %s: %v", e.Entry, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
