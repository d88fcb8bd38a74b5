package qdrant

import (
	"fmt"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

func init() {
	vectordb.Register(ProviderName, newFromProvider)
}

// newFromProvider builds an Adapter from generic provider settings.
func newFromProvider(cfg vectordb.ProviderConfig, engine vectordb.EmbeddingEngine, log vectordb.Logger) (vectordb.Adapter, error) {
	qcfg, err := ConfigFromURL(cfg.Address(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrInitialization, err)
	}

	client, err := NewQdrantClient(QdrantParams{Config: qcfg})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrInitialization, err)
	}
	return NewAdapter(client, engine, log), nil
}
