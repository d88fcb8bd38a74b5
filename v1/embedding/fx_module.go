package embedding

import (
	"context"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule wires the embedding client into Fx.
//
// It provides:
//   - *Config                  (NewConfig)
//   - *Client                  (NewClient)
//   - vectordb.EmbeddingEngine (the same *Client)
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewConfig,
		NewClient,
		func(c *Client) vectordb.EmbeddingEngine { return c },
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// -------------------------------------------------------
// Lifecycle hook
// -------------------------------------------------------

// RegisterEmbeddingLifecycle closes the client on application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
