package vectordb

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound is returned when an operation targets a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidValue is returned for invalid arguments, such as a search without text or vector.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInitialization is returned when an adapter cannot be constructed.
	ErrInitialization = errors.New("vector engine initialization failed")
)

// CollectionNotFound wraps ErrCollectionNotFound with the collection name.
func CollectionNotFound(name string) error {
	return fmt.Errorf("%w: '%s'", ErrCollectionNotFound, name)
}

// IsCollectionNotFound reports whether err wraps ErrCollectionNotFound.
func IsCollectionNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}
