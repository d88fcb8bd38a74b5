package vectordb

import (
	"fmt"
	"sort"
	"sync"
)

// ProviderConfig carries the connection settings every provider understands.
type ProviderConfig struct {
	// URL is the database address
	URL string `yaml:"url" env:"VECBRIDGE_VECTOR_DB_URL"`

	// Endpoint overrides URL for providers that call it an endpoint (Azure).
	Endpoint string `yaml:"endpoint" env:"VECBRIDGE_VECTOR_DB_ENDPOINT"`

	// APIKey authenticates against the database
	APIKey string `yaml:"apiKey" env:"VECBRIDGE_VECTOR_DB_KEY"`
}

// Address returns Endpoint, or URL when no endpoint is set.
func (c ProviderConfig) Address() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return c.URL
}

// Factory builds an adapter from provider settings.
type Factory func(cfg ProviderConfig, engine EmbeddingEngine, log Logger) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider available to New. Registering a name twice panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("vectordb: Register factory is nil for " + name)
	}
	if _, dup := registry[name]; dup {
		panic("vectordb: Register called twice for provider " + name)
	}
	registry[name] = factory
}

// New builds the adapter registered under name.
func New(name string, cfg ProviderConfig, engine EmbeddingEngine, log Logger) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown vector db provider %q (known: %v)", ErrInitialization, name, Providers())
	}
	if engine == nil {
		return nil, fmt.Errorf("%w: embedding engine is required", ErrInitialization)
	}
	return factory(cfg, engine, OrNop(log))
}

// Providers lists the registered provider names in sorted order.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
