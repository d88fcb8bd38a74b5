package azuresearch

import (
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
// resource is the sanitized index name.
func (a *Adapter) observeOperation(operation, resource string, start time.Time, err error, size int64) {
	if a == nil || a.observer == nil {
		return
	}

	a.observer.ObserveOperation(observability.OperationContext{
		Component: ProviderName,
		Operation: operation,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
		Size:      size,
	})
}
