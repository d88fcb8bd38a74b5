// Package observability defines the hook through which vecbridge components
// report the operations they perform (vector database calls, HTTP attempts).
//
// Components accept an optional Observer and emit one OperationContext per
// operation. The metrics package provides a Prometheus-backed implementation.
//
// Example:
//
//	type printObserver struct{}
//
//	func (printObserver) ObserveOperation(op observability.OperationContext) {
//	    fmt.Printf("%s.%s took %s (err=%v)\n", op.Component, op.Operation, op.Duration, op.Error)
//	}
//
//	adapter := qdrant.NewAdapter(client, engine, log).WithObserver(printObserver{})
package observability

import "time"

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the emitting package, e.g. "qdrant", "redis", "httpretry"
	Component string

	// Operation is the logical operation name, e.g. "search", "create_data_points"
	Operation string

	// Resource is the primary target, e.g. the collection or the URL host
	Resource string

	// SubResource carries extra context such as a document key
	SubResource string

	// Duration is the wall-clock time the operation took
	Duration time.Duration

	// Error is the operation's error, nil on success
	Error error

	// Size is an operation-specific count (points written, results returned, bytes)
	Size int64

	// Metadata holds optional additional attributes
	Metadata map[string]interface{}
}

// Observer receives operation events.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// Status returns "success" or "error" depending on the operation's outcome.
func (o OperationContext) Status() string {
	if o.Error != nil {
		return "error"
	}
	return "success"
}
