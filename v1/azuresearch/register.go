package azuresearch

import (
	"fmt"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

func init() {
	vectordb.Register(ProviderName, newFromProvider)
}

// newFromProvider requires an endpoint (or URL) and an API key.
func newFromProvider(cfg vectordb.ProviderConfig, engine vectordb.EmbeddingEngine, log vectordb.Logger) (vectordb.Adapter, error) {
	client, err := NewSearchClient(DefaultConfig(cfg.Address(), cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: missing required Azure AI Search credentials: %v", vectordb.ErrInitialization, err)
	}
	client.HTTP().WithLogger(log)
	return NewAdapter(client, engine, log), nil
}
