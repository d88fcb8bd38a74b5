// Package tracer sets up OpenTelemetry tracing for vecbridge.
//
// NewClient installs a global TracerProvider and W3C trace-context
// propagator. When EnableExport is set, spans are batched to an OTLP/HTTP
// collector. The retry HTTP client creates one client span per attempt on
// the global provider, so scrape, embedding and Azure Search calls show up
// once a Tracer exists.
//
// Basic usage:
//
//	t, err := tracer.NewClient(tracer.Config{ServiceName: "vecbridge"}, log)
//	if err != nil {
//		return err
//	}
//	defer t.Shutdown(ctx)
//
//	ctx, span := t.StartSpan(ctx, "vector-search")
//	defer span.End()
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
//
// GetCarrier and SetCarrierOnContext move the trace context through a plain
// header map when it has to cross a process boundary.
package tracer
