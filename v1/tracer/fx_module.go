package tracer

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vecbridge/v1/logger"
)

// FXModule provides *Tracer and flushes it when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "vecbridge"} }),
//	    tracer.FXModule,
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams groups the dependencies for creating a Tracer.
type TracerParams struct {
	fx.In

	Config Config
	Logger *logger.Logger `optional:"true"`
}

// NewClientWithDI creates a Tracer from fx-injected dependencies.
func NewClientWithDI(p TracerParams) (*Tracer, error) {
	var l Logger
	if p.Logger != nil {
		l = p.Logger
	}
	return NewClient(p.Config, l)
}

// RegisterTracerLifecycle shuts the provider down on stop so buffered spans
// reach the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down tracer...")
			return tracer.Shutdown(ctx)
		},
	})
}
