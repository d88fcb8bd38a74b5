package azuresearch

import "errors"

var (
	// ErrIndexNotFound is returned when the service answers 404 for an index.
	ErrIndexNotFound = errors.New("index not found")

	// ErrDocumentNotFound is returned when a document key does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrIndexNotFound) || errors.Is(err, ErrDocumentNotFound)
}
