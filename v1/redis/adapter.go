package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

// ProviderName is the name the adapter registers under.
const ProviderName = "redis"

// defaultBatchSize is the number of documents written per pipeline.
const defaultBatchSize = 200

// Adapter implements vectordb.Adapter on RediSearch and RedisJSON.
//
// Every collection is a search index over JSON documents keyed
// "<collection>:<id>". Payloads are stored as JSON strings; Search scores are
// the cosine distance halved into [0, 1].
type Adapter struct {
	client   Client
	engine   vectordb.EmbeddingEngine
	logger   vectordb.Logger
	observer observability.Observer

	// batchThreshold, when positive, drops BatchSearch hits scoring at or above it.
	batchThreshold float32
}

// DefaultBatchDistanceThreshold is the BatchSearch cutoff applied unless
// WithBatchDistanceThreshold overrides it.
const DefaultBatchDistanceThreshold float32 = 0.1

var _ vectordb.Adapter = (*Adapter)(nil)

// NewAdapter creates a Redis adapter for the vectordb interface.
func NewAdapter(client Client, engine vectordb.EmbeddingEngine, logger vectordb.Logger) *Adapter {
	return &Adapter{
		client:         client,
		engine:         engine,
		logger:         vectordb.OrNop(logger),
		batchThreshold: DefaultBatchDistanceThreshold,
	}
}

// WithObserver sets the observer notified after every operation.
func (a *Adapter) WithObserver(observer observability.Observer) *Adapter {
	a.observer = observer
	return a
}

// WithBatchDistanceThreshold keeps only BatchSearch results whose score is
// below threshold. The default is DefaultBatchDistanceThreshold; zero disables
// the filter.
func (a *Adapter) WithBatchDistanceThreshold(threshold float32) *Adapter {
	a.batchThreshold = threshold
	return a
}

// Name returns "redis".
func (a *Adapter) Name() string { return ProviderName }

// HasCollection reports whether the collection's index exists.
func (a *Adapter) HasCollection(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	exists, err := a.client.IndexExists(ctx, name)
	a.observeOperation("has_collection", name, start, err, 0)
	if err != nil {
		return false, fmt.Errorf("[Redis] failed to check index '%s': %w", name, err)
	}
	return exists, nil
}

// CreateCollection creates the collection's JSON index sized for the
// embedding engine. Existing indexes are left untouched.
func (a *Adapter) CreateCollection(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { a.observeOperation("create_collection", name, start, err, 0) }()

	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", vectordb.ErrInvalidValue)
	}

	exists, err := a.client.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("[Redis] failed to check index '%s': %w", name, err)
	}
	if exists {
		a.logger.Debug("Index already exists", nil, map[string]interface{}{"collection": name})
		return nil
	}

	if err := a.client.CreateIndex(ctx, name, a.engine.VectorSize()); err != nil {
		if IsIndexExistsError(err) {
			return nil
		}
		return fmt.Errorf("[Redis] failed to create index '%s': %w", name, err)
	}

	a.logger.Info("Created index", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": a.engine.VectorSize(),
	})
	return nil
}

// CreateDataPoints embeds the points and writes one JSON document per point.
// The collection must exist.
func (a *Adapter) CreateDataPoints(ctx context.Context, collection string, points []vectordb.DataPoint) (err error) {
	start := time.Now()
	defer func() { a.observeOperation("create_data_points", collection, start, err, int64(len(points))) }()

	if err := a.requireCollection(ctx, collection); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	vectors, err := vectordb.EmbedPoints(ctx, a.engine, points)
	if err != nil {
		return err
	}

	for from := 0; from < len(points); from += defaultBatchSize {
		to := min(from+defaultBatchSize, len(points))

		docs := make(map[string]any, to-from)
		for i := from; i < to; i++ {
			doc, err := newDocument(points[i], vectors[i])
			if err != nil {
				return err
			}
			docs[DocumentKey(collection, points[i].ID)] = doc
		}

		if err := a.client.SetJSONDocuments(ctx, docs); err != nil {
			return fmt.Errorf("[Redis] failed to write documents [%d:%d]: %w", from, to, err)
		}
	}

	a.logger.Debug("Stored data points", nil, map[string]interface{}{
		"collection": collection,
		"count":      len(points),
	})
	return nil
}

// Retrieve reads the documents of ids. Missing documents are skipped.
func (a *Adapter) Retrieve(ctx context.Context, collection string, ids []string) (results []vectordb.ScoredResult, err error) {
	start := time.Now()
	defer func() { a.observeOperation("retrieve", collection, start, err, int64(len(results))) }()

	if err := a.requireCollection(ctx, collection); err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = DocumentKey(collection, id)
	}

	raws, err := a.client.GetJSONDocuments(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("[Redis] retrieve failed: %w", err)
	}

	results = make([]vectordb.ScoredResult, 0, len(raws))
	for i, raw := range raws {
		if raw == "" {
			a.logger.Debug("Document not found", nil, map[string]interface{}{"key": keys[i]})
			continue
		}
		res, err := parseStoredDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("[Redis] document '%s': %w", keys[i], err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Search runs a KNN query. A missing collection yields no results and a warning.
func (a *Adapter) Search(ctx context.Context, query vectordb.SearchQuery) (results []vectordb.ScoredResult, err error) {
	start := time.Now()
	defer func() { a.observeOperation("search", query.CollectionName, start, err, int64(len(results))) }()

	if err := vectordb.ValidateQuery(query); err != nil {
		return nil, err
	}
	if query.Limit <= 0 {
		return []vectordb.ScoredResult{}, nil
	}

	exists, err := a.client.IndexExists(ctx, query.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("[Redis] failed to check index '%s': %w", query.CollectionName, err)
	}
	if !exists {
		a.logger.Warn("Collection not found, returning no results", nil, map[string]interface{}{
			"collection": query.CollectionName,
		})
		return []vectordb.ScoredResult{}, nil
	}

	vector, err := vectordb.QueryVector(ctx, a.engine, query)
	if err != nil {
		return nil, err
	}

	return a.searchVector(ctx, query.CollectionName, vector, query.Limit, query.WithVector, query.RawScore)
}

func (a *Adapter) searchVector(ctx context.Context, collection string, vector []float32, limit int, withVector, raw bool) ([]vectordb.ScoredResult, error) {
	docs, err := a.client.KNNSearch(ctx, collection, vector, limit, withVector)
	if err != nil {
		return nil, fmt.Errorf("[Redis] search failed: %w", err)
	}

	results := make([]vectordb.ScoredResult, 0, len(docs))
	for _, doc := range docs {
		res, err := parseSearchDocument(doc, raw)
		if err != nil {
			return nil, fmt.Errorf("[Redis] %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}

// BatchSearch embeds queryTexts in one call and searches them in parallel.
func (a *Adapter) BatchSearch(ctx context.Context, collection string, queryTexts []string, limit int, withVectors bool) (results [][]vectordb.ScoredResult, err error) {
	start := time.Now()
	defer func() { a.observeOperation("batch_search", collection, start, err, int64(len(queryTexts))) }()

	if limit <= 0 {
		return emptyBatch(len(queryTexts)), nil
	}

	exists, err := a.client.IndexExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("[Redis] failed to check index '%s': %w", collection, err)
	}
	if !exists {
		a.logger.Warn("Collection not found, returning no results", nil, map[string]interface{}{"collection": collection})
		return emptyBatch(len(queryTexts)), nil
	}

	return vectordb.BatchSearch(ctx, a.engine, queryTexts, func(ctx context.Context, vector []float32) ([]vectordb.ScoredResult, error) {
		res, err := a.searchVector(ctx, collection, vector, limit, withVectors, false)
		if err != nil {
			return nil, err
		}
		return a.withinThreshold(res), nil
	})
}

func (a *Adapter) withinThreshold(results []vectordb.ScoredResult) []vectordb.ScoredResult {
	if a.batchThreshold <= 0 {
		return results
	}
	kept := results[:0]
	for _, r := range results {
		if r.Score < a.batchThreshold {
			kept = append(kept, r)
		}
	}
	return kept
}

// DeleteDataPoints removes the documents of ids.
func (a *Adapter) DeleteDataPoints(ctx context.Context, collection string, ids []string) (err error) {
	start := time.Now()
	defer func() { a.observeOperation("delete_data_points", collection, start, err, int64(len(ids))) }()

	if err := a.requireCollection(ctx, collection); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = DocumentKey(collection, id)
	}

	deleted, err := a.client.Delete(ctx, keys...)
	if err != nil {
		return fmt.Errorf("[Redis] delete failed: %w", err)
	}

	a.logger.Debug("Deleted documents", nil, map[string]interface{}{
		"collection": collection,
		"requested":  len(ids),
		"deleted":    deleted,
	})
	return nil
}

// CreateVectorIndex creates the collection backing an index on a property.
func (a *Adapter) CreateVectorIndex(ctx context.Context, indexName, propertyName string) error {
	return a.CreateCollection(ctx, vectordb.IndexCollectionName(indexName, propertyName))
}

// IndexDataPoints writes each point's indexed text into the index collection.
func (a *Adapter) IndexDataPoints(ctx context.Context, indexName, propertyName string, points []vectordb.DataPoint) error {
	return a.CreateDataPoints(ctx, vectordb.IndexCollectionName(indexName, propertyName), vectordb.IndexPoints(points))
}

// Prune drops every search index together with its documents.
func (a *Adapter) Prune(ctx context.Context) (err error) {
	start := time.Now()
	names, err := a.client.ListIndexes(ctx)
	if err != nil {
		a.observeOperation("prune", "", start, err, 0)
		return fmt.Errorf("[Redis] failed to list indexes: %w", err)
	}
	defer func() { a.observeOperation("prune", "", start, err, int64(len(names))) }()

	for _, name := range names {
		if err := a.client.DropIndex(ctx, name, true); err != nil {
			return fmt.Errorf("[Redis] failed to drop index '%s': %w", name, err)
		}
		a.logger.Info("Dropped index", nil, map[string]interface{}{"collection": name})
	}
	return nil
}

func (a *Adapter) requireCollection(ctx context.Context, name string) error {
	exists, err := a.client.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("[Redis] failed to check index '%s': %w", name, err)
	}
	if !exists {
		return vectordb.CollectionNotFound(name)
	}
	return nil
}

func emptyBatch(n int) [][]vectordb.ScoredResult {
	out := make([][]vectordb.ScoredResult, n)
	for i := range out {
		out[i] = []vectordb.ScoredResult{}
	}
	return out
}
