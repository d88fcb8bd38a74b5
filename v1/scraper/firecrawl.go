package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
)

// Scraper turns a URL into markdown.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Firecrawl is a Scraper backed by the Firecrawl scrape API.
type Firecrawl struct {
	endpoint string
	apiKey   string
	http     *httpretry.Client
}

var _ Scraper = (*Firecrawl)(nil)

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	Mobile          bool     `json:"mobile"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// NewFirecrawl creates a Firecrawl client. An empty API key is rejected.
func NewFirecrawl(cfg Config) (*Firecrawl, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("[Firecrawl] api key is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultFirecrawlEndpoint
	}
	return &Firecrawl{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     httpretry.NewClient(cfg.HTTP),
	}, nil
}

// HTTP returns the retry client, e.g. to attach a logger or observer.
func (f *Firecrawl) HTTP() *httpretry.Client {
	return f.http
}

// Scrape returns the main-content markdown of url. A response without
// markdown yields an empty string.
func (f *Firecrawl) Scrape(ctx context.Context, url string) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+f.apiKey)

	var resp scrapeResponse
	err := f.http.PostJSON(ctx, f.endpoint, header, scrapeRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		Mobile:          false,
		OnlyMainContent: true,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("[Firecrawl] scrape %s: %w", url, err)
	}
	return resp.Data.Markdown, nil
}
