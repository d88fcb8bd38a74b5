package azuresearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
)

// SearchClient talks to the Azure AI Search REST API.
// It is safe for concurrent use.
type SearchClient struct {
	endpoint   string
	apiKey     string
	apiVersion string
	http       *httpretry.Client
}

// NewSearchClient creates a client for cfg.
func NewSearchClient(cfg Config) (*SearchClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewSearchClientWithHTTP(cfg, httpretry.NewClient(cfg.HTTP)), nil
}

// NewSearchClientWithHTTP creates a client that sends requests through hc.
func NewSearchClientWithHTTP(cfg Config, hc *httpretry.Client) *SearchClient {
	return &SearchClient{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: cfg.apiVersion(),
		http:       hc,
	}
}

// HTTP returns the underlying retry client.
func (c *SearchClient) HTTP() *httpretry.Client {
	return c.http
}

func (c *SearchClient) url(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", c.apiVersion)
	return c.endpoint + path + "?" + query.Encode()
}

func (c *SearchClient) header() http.Header {
	h := http.Header{}
	h.Set("api-key", c.apiKey)
	return h
}

func indexPath(name string) string {
	return "/indexes/" + url.PathEscape(name)
}

// GetIndex fetches an index definition. A missing index yields ErrIndexNotFound.
func (c *SearchClient) GetIndex(ctx context.Context, name string) (*Index, error) {
	var idx Index
	if err := c.http.GetJSON(ctx, c.url(indexPath(name), nil), c.header(), &idx); err != nil {
		if httpretry.IsNotFound(err) {
			return nil, fmt.Errorf("%w: '%s'", ErrIndexNotFound, name)
		}
		return nil, err
	}
	return &idx, nil
}

// IndexExists reports whether the index exists.
func (c *SearchClient) IndexExists(ctx context.Context, name string) (bool, error) {
	_, err := c.GetIndex(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// CreateOrUpdateIndex creates the index or replaces its definition.
func (c *SearchClient) CreateOrUpdateIndex(ctx context.Context, idx Index) error {
	return c.http.PutJSON(ctx, c.url(indexPath(idx.Name), nil), c.header(), idx, nil)
}

// DeleteIndex deletes an index and all its documents.
func (c *SearchClient) DeleteIndex(ctx context.Context, name string) error {
	err := c.http.Delete(ctx, c.url(indexPath(name), nil), c.header())
	if httpretry.IsNotFound(err) {
		return fmt.Errorf("%w: '%s'", ErrIndexNotFound, name)
	}
	return err
}

// ListIndexes returns the names of all indexes.
func (c *SearchClient) ListIndexes(ctx context.Context) ([]string, error) {
	var list indexList
	if err := c.http.GetJSON(ctx, c.url("/indexes", url.Values{"$select": {"name"}}), c.header(), &list); err != nil {
		return nil, err
	}
	names := make([]string, len(list.Value))
	for i, v := range list.Value {
		names[i] = v.Name
	}
	return names, nil
}

// IndexDocuments submits a batch of upload or delete actions and returns the
// per-document results. Partial failures are reported in the results, not as
// an error.
func (c *SearchClient) IndexDocuments(ctx context.Context, index string, actions []IndexAction) ([]IndexingResult, error) {
	var resp indexingResponse
	err := c.http.PostJSON(ctx, c.url(indexPath(index)+"/docs/index", nil), c.header(), indexBatch{Value: actions}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// GetDocument looks up a document by key. A missing key yields ErrDocumentNotFound.
func (c *SearchClient) GetDocument(ctx context.Context, index, key string) (*Document, error) {
	var doc Document
	err := c.http.GetJSON(ctx, c.url(indexPath(index)+"/docs/"+url.PathEscape(key), nil), c.header(), &doc)
	if err != nil {
		if httpretry.IsNotFound(err) {
			return nil, fmt.Errorf("%w: '%s'", ErrDocumentNotFound, key)
		}
		return nil, err
	}
	return &doc, nil
}

// Search runs a query against the index.
func (c *SearchClient) Search(ctx context.Context, index string, req SearchRequest) ([]SearchHit, error) {
	var resp searchResponse
	if err := c.http.PostJSON(ctx, c.url(indexPath(index)+"/docs/search", nil), c.header(), req, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}
