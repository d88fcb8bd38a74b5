package redis

import (
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
// This is used internally to track Redis commands for metrics and tracing.
//
// Notes:
//   - resource: the index operated on, empty for multi-key commands
//   - subResource: additional context, currently unused
func (r *RedisClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if r == nil || r.observer == nil {
		return
	}

	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "redis",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

// observeOperation reports an adapter-level operation under the "redis" component.
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
		Metadata:  map[string]interface{}{"layer": "adapter"},
	})
}
