package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tr, err := NewClient(Config{ServiceName: "vecbridge-test", AppEnv: "test"}, nil,
		sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	return tr, recorder
}

func TestStartSpanAndAttributes(t *testing.T) {
	tr, recorder := newRecordingTracer(t)

	ctx, parent := tr.StartSpan(context.Background(), "parent")
	_, child := tr.StartSpan(ctx, "child")
	tr.SetAttributes(child, map[string]interface{}{
		"collection": "docs",
		"limit":      5,
		"ratio":      0.5,
		"raw":        true,
		"ids":        []string{"a", "b"},
	})
	tr.RecordErrorOnSpan(child, errors.New("boom"))
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	got := spans[0]
	assert.Equal(t, "child", got.Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), got.Parent().SpanID())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "boom", got.Status().Description)

	attrs := map[string]string{}
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "docs", attrs["collection"])
	assert.Equal(t, "5", attrs["limit"])
	assert.Equal(t, "true", attrs["raw"])
	assert.Equal(t, "[a b]", attrs["ids"])
}

func TestCarrierRoundTrip(t *testing.T) {
	tr, _ := newRecordingTracer(t)

	ctx, span := tr.StartSpan(context.Background(), "outgoing")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	remote := tr.SetCarrierOnContext(context.Background(), carrier)
	_, received := tr.StartSpan(remote, "incoming")
	defer received.End()

	assert.Equal(t, span.SpanContext().TraceID(), received.SpanContext().TraceID())
}

func TestGlobalProviderInstalled(t *testing.T) {
	tr, _ := newRecordingTracer(t)
	assert.Same(t, tr.Provider(), otel.GetTracerProvider())
}

func TestFXModule(t *testing.T) {
	var tr *Tracer
	app := fxtest.New(t,
		fx.Provide(func() Config { return Config{ServiceName: "vecbridge-test"} }),
		FXModule,
		fx.Populate(&tr),
	)
	app.RequireStart()
	require.NotNil(t, tr)
	app.RequireStop()
}
