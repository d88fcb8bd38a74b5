package embedding

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

// Client computes embeddings. It implements vectordb.EmbeddingEngine.
type Client struct {
	provider   *inferenceProvider
	dimensions int
	batchSize  int
}

var _ vectordb.EmbeddingEngine = (*Client)(nil)

// NewClient constructs a Client from Config.
// Requests use a retrying HTTP client with a short fixed backoff.
func NewClient(cfg *Config) (*Client, error) {
	return NewClientWithHTTP(cfg, nil)
}

// NewClientWithHTTP is NewClient with a caller-supplied retrying client,
// so tracing, metrics and retry policy can be shared.
func NewClientWithHTTP(cfg *Config, hc *httpretry.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}
	if hc == nil {
		hc = httpretry.NewClient(httpConfig(cfg))
	}

	p, err := newInferenceProvider(cfg, hc)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Client{provider: p, dimensions: cfg.Dimensions, batchSize: batch}, nil
}

// EmbedText returns one vector per text, in order. Large inputs are split
// into requests of at most BatchSize texts.
func (c *Client) EmbedText(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))

		vectors, err := c.provider.create(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding: batch %d-%d: %w", start, end, err)
		}
		for i, v := range vectors {
			if len(v) != c.dimensions {
				return nil, fmt.Errorf("embedding: text %d has %d dimensions, expected %d", start+i, len(v), c.dimensions)
			}
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// VectorSize returns the configured dimensions.
func (c *Client) VectorSize() int {
	return c.dimensions
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *Client) Close() error {
	return nil
}
