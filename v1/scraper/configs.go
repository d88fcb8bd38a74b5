package scraper

import (
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
)

const (
	// DefaultFirecrawlEndpoint is the Firecrawl v1 scrape endpoint.
	DefaultFirecrawlEndpoint = "https://api.firecrawl.dev/v1/scrape"

	// DefaultFetchTimeout bounds the plain HTML fetch the crawler does for link discovery.
	DefaultFetchTimeout = 15 * time.Second

	DefaultConcurrency = 4
	DefaultMaxDepth    = 5
)

// Config configures the Firecrawl client.
type Config struct {
	// APIKey is sent as a bearer token.
	APIKey string `yaml:"api_key" env:"VECBRIDGE_FIRECRAWL_API_KEY"`

	// Endpoint overrides DefaultFirecrawlEndpoint.
	Endpoint string `yaml:"endpoint" env:"VECBRIDGE_FIRECRAWL_ENDPOINT"`

	// HTTP is the retry policy. Firecrawl rate limits aggressively, so the
	// default waits 35s between up to 5 attempts on 408, 429 and 502.
	HTTP httpretry.Config `yaml:"http"`
}

// DefaultConfig returns a Config for the public Firecrawl API.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		Endpoint: DefaultFirecrawlEndpoint,
		HTTP:     httpretry.DefaultConfig(),
	}
}

// CrawlConfig configures a Crawler.
type CrawlConfig struct {
	// DomainPrefix restricts which discovered links are followed.
	// Empty means the start URL is used as the prefix.
	DomainPrefix string `yaml:"domain_prefix" env:"VECBRIDGE_CRAWL_DOMAIN_PREFIX"`

	// MaxDepth is the number of link hops followed from the start URL.
	MaxDepth int `yaml:"max_depth" env:"VECBRIDGE_CRAWL_MAX_DEPTH"`

	// FetchTimeout bounds a single HTML fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"VECBRIDGE_CRAWL_FETCH_TIMEOUT"`
}

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
