package azuresearch

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
)

const (
	// DefaultAPIVersion is the data plane API version requests are made with.
	DefaultAPIVersion = "2024-07-01"

	// MaxTop is the largest number of results a search may ask for.
	MaxTop = 10000

	// DefaultRequestTimeout bounds a single HTTP attempt.
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds the connection settings of an Azure AI Search service.
type Config struct {
	// Endpoint is the service URL, e.g. https://my-service.search.windows.net
	Endpoint string `yaml:"endpoint" env:"AZURE_SEARCH_ENDPOINT"`

	// APIKey is an admin key of the service
	APIKey string `yaml:"api_key" env:"AZURE_SEARCH_API_KEY"`

	// APIVersion defaults to DefaultAPIVersion
	APIVersion string `yaml:"api_version" env:"AZURE_SEARCH_API_VERSION"`

	// HTTP is the retry policy of the REST client
	HTTP httpretry.Config `yaml:"http"`
}

// DefaultConfig returns a Config for endpoint with the default API version
// and a retry policy of 3 attempts, 2s apart.
func DefaultConfig(endpoint, apiKey string) Config {
	hc := httpretry.DefaultConfig()
	hc.MaxRetries = 3
	hc.Backoff = 2 * time.Second
	hc.Timeout = DefaultRequestTimeout

	return Config{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		APIVersion: DefaultAPIVersion,
		HTTP:       hc,
	}
}

// Validate checks that endpoint and key are set.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("azure search endpoint is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("azure search api key is required")
	}
	return nil
}

func (c Config) apiVersion() string {
	if c.APIVersion == "" {
		return DefaultAPIVersion
	}
	return c.APIVersion
}
