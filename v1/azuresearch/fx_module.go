package azuresearch

import (
	"context"
	"log"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule provides the Azure AI Search client and adapter.
//
// Dependencies required by this module:
//   - azuresearch.Config
//   - vectordb.EmbeddingEngine
//   - optionally vectordb.Logger and observability.Observer
var FXModule = fx.Module("azuresearch",
	fx.Provide(
		NewSearchClientWithDI,
		newAdapterFx,
		func(a *Adapter) vectordb.Adapter { return a },
	),
	fx.Invoke(RegisterAzureSearchLifecycle),
)

// SearchClientParams groups the dependencies of the REST client.
type SearchClientParams struct {
	fx.In

	Config   Config
	Logger   vectordb.Logger        `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewSearchClientWithDI creates a SearchClient whose retry client logs and
// reports through the injected logger and observer.
func NewSearchClientWithDI(p SearchClientParams) (*SearchClient, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	hc := httpretry.NewClient(p.Config.HTTP).WithObserver(p.Observer)
	if p.Logger != nil {
		hc.WithLogger(p.Logger)
	}
	return NewSearchClientWithHTTP(p.Config, hc), nil
}

// AdapterParams groups the Adapter's dependencies.
type AdapterParams struct {
	fx.In

	Client   *SearchClient
	Engine   vectordb.EmbeddingEngine
	Logger   vectordb.Logger        `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func newAdapterFx(p AdapterParams) *Adapter {
	return NewAdapter(p.Client, p.Engine, p.Logger).WithObserver(p.Observer)
}

// RegisterAzureSearchLifecycle checks on start that the service accepts the key.
func RegisterAzureSearchLifecycle(lc fx.Lifecycle, client *SearchClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := client.ListIndexes(ctx); err != nil {
				log.Printf("[AzureSearch] service check failed: %v", err)
				return err
			}
			log.Println("[AzureSearch] client initialized successfully")
			return nil
		},
	})
}
