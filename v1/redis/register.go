package redis

import (
	"fmt"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

func init() {
	vectordb.Register(ProviderName, newFromProvider)
}

// newFromProvider builds an Adapter from a redis:// URL. The API key, when
// set, is used as password unless the URL carries one.
func newFromProvider(cfg vectordb.ProviderConfig, engine vectordb.EmbeddingEngine, log vectordb.Logger) (vectordb.Adapter, error) {
	rcfg, err := ConfigFromURL(cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrInitialization, err)
	}
	if rcfg.Password == "" {
		rcfg.Password = cfg.APIKey
	}

	client, err := NewClient(rcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectordb.ErrInitialization, err)
	}
	return NewAdapter(client, engine, log), nil
}
