package vectordb

import "context"

// Adapter is the common interface for all vector database backends.
//
// Collections are named groups of embedded data points. Every write embeds
// the points' text through the adapter's EmbeddingEngine.
//
//go:generate mockgen -destination=mock_engine.go -package=vectordb . EmbeddingEngine,Logger
type Adapter interface {
	// Name returns the provider name the adapter is registered under.
	Name() string

	// HasCollection reports whether the collection exists.
	HasCollection(ctx context.Context, name string) (bool, error)

	// CreateCollection creates the collection sized for the embedding engine.
	// It is a no-op when the collection already exists.
	CreateCollection(ctx context.Context, name string) error

	// CreateDataPoints embeds and stores the given points.
	CreateDataPoints(ctx context.Context, collection string, points []DataPoint) error

	// Retrieve fetches points by id. Missing ids are skipped.
	// Returns ErrCollectionNotFound when the collection does not exist.
	Retrieve(ctx context.Context, collection string, ids []string) ([]ScoredResult, error)

	// Search runs a similarity search. A missing collection yields no results.
	Search(ctx context.Context, query SearchQuery) ([]ScoredResult, error)

	// BatchSearch embeds all query texts at once and searches them in parallel.
	// The result at index i belongs to queryTexts[i].
	BatchSearch(ctx context.Context, collection string, queryTexts []string, limit int, withVectors bool) ([][]ScoredResult, error)

	// DeleteDataPoints removes points by id.
	// Returns ErrCollectionNotFound when the collection does not exist.
	DeleteDataPoints(ctx context.Context, collection string, ids []string) error

	// CreateVectorIndex creates the collection backing an index on a property.
	CreateVectorIndex(ctx context.Context, indexName, propertyName string) error

	// IndexDataPoints writes the indexed property of each point into the
	// index collection created by CreateVectorIndex.
	IndexDataPoints(ctx context.Context, indexName, propertyName string, points []DataPoint) error

	// Prune drops every collection in the backend.
	Prune(ctx context.Context) error
}

// EmbeddingEngine turns text into vectors.
type EmbeddingEngine interface {
	// EmbedText returns one vector per input text, in input order.
	EmbedText(ctx context.Context, texts []string) ([][]float32, error)

	// VectorSize returns the dimension of the produced vectors.
	VectorSize() int
}

// Logger is the logging interface adapters accept; *logger.Logger implements it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// NopLogger discards everything. Adapters fall back to it when no logger is given.
type NopLogger struct{}

func (NopLogger) Info(string, error, ...map[string]interface{})  {}
func (NopLogger) Debug(string, error, ...map[string]interface{}) {}
func (NopLogger) Warn(string, error, ...map[string]interface{})  {}
func (NopLogger) Error(string, error, ...map[string]interface{}) {}

// OrNop returns l, or NopLogger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
