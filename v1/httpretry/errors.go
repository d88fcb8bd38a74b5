package httpretry

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when a request ends with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string

	// Attempts is the number of attempts made, including the failing one.
	Attempts int

	// Exhausted is true when the status was retryable but MaxRetries was reached.
	Exhausted bool
}

func (e *StatusError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("%s %s: exceeded max retries (%d) on %d %s. Last response: %s",
			e.Method, e.URL, e.Attempts, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a *StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 *StatusError.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
