package qdrant

import (
	"context"
	"log"
	"sync"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the Qdrant adapter.
//
// The module:
//  1. Provides NewQdrantClient, which connects and health-checks the server.
//  2. Provides the Adapter, also exposed as vectordb.Adapter.
//  3. Invokes RegisterQdrantLifecycle to close the connection on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    embedding.FXModule,
//	    qdrant.FXModule,
//	    fx.Provide(func() *qdrant.Config { return cfg }),
//	)
//
// Dependencies required by this module:
//   - *qdrant.Config
//   - vectordb.EmbeddingEngine
//   - optionally vectordb.Logger and observability.Observer
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClient,
		newAdapterFx,
		func(a *Adapter) vectordb.Adapter { return a },
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams defines dependencies needed to construct the Qdrant client.
type QdrantParams struct {
	fx.In
	Config *Config
}

// AdapterParams groups the Adapter's dependencies.
type AdapterParams struct {
	fx.In

	Client   *QdrantClient
	Engine   vectordb.EmbeddingEngine
	Logger   vectordb.Logger        `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func newAdapterFx(p AdapterParams) *Adapter {
	return NewAdapter(p.Client, p.Engine, p.Logger).WithObserver(p.Observer)
}

// RegisterQdrantLifecycle handles shutdown of the Qdrant client.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("[Qdrant] client initialized successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = client.Close()
				log.Println("[Qdrant] client connection closed")
			})
			return err
		},
	})
}
