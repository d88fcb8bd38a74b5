package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
)

type inferenceProvider struct {
	baseURL    string
	token      string
	model      string
	dimensions int
	http       *httpretry.Client
}

func newInferenceProvider(cfg *Config, hc *httpretry.Client) (*inferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing VECBRIDGE_EMBEDDING_ENDPOINT")
	}

	// Remove trailing slash if user added it.
	base := strings.TrimRight(cfg.Endpoint, "/")

	return &inferenceProvider{
		baseURL:    base,
		token:      cfg.ServiceToken,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		http:       hc,
	}, nil
}

type embeddingsRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// create generates embeddings for texts using the OpenAI-compatible /embeddings endpoint.
func (p *inferenceProvider) create(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	header := http.Header{}
	if p.token != "" {
		header.Set("Authorization", "Bearer "+p.token)
	}

	var parsed embeddingsResponse
	err := p.http.PostJSON(ctx, p.baseURL+"/embeddings", header, embeddingsRequest{
		Model:      p.model,
		Input:      texts,
		Dimensions: p.dimensions,
	}, &parsed)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("inference: got %d embeddings for %d texts", len(parsed.Data), len(texts))
	}

	// Servers may answer out of order; index is authoritative.
	sort.SliceStable(parsed.Data, func(i, j int) bool { return parsed.Data[i].Index < parsed.Data[j].Index })

	out := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

func httpConfig(cfg *Config) httpretry.Config {
	c := httpretry.DefaultConfig()
	c.Backoff = 2 * time.Second
	c.Timeout = time.Duration(cfg.HTTPTimeoutS) * time.Second
	return c
}
