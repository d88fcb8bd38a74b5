package azuresearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
)

// ProviderName is the name the adapter registers under.
const ProviderName = "azureaisearch"

const (
	vectorProfile = "vector-profile"
	hnswAlgorithm = "hnsw-algorithm"
)

// Adapter implements vectordb.Adapter on Azure AI Search.
//
// Collection names are passed through SanitizeIndexName. Every document holds
// id, text, vector and the JSON-encoded payload. Search scores are
// 1 - @search.score, so lower is closer, unlike Azure's native score where
// higher is better; set SearchQuery.RawScore to get @search.score unchanged.
type Adapter struct {
	client   *SearchClient
	engine   vectordb.EmbeddingEngine
	logger   vectordb.Logger
	observer observability.Observer
}

var _ vectordb.Adapter = (*Adapter)(nil)

// NewAdapter creates an Azure AI Search adapter for the vectordb interface.
func NewAdapter(client *SearchClient, engine vectordb.EmbeddingEngine, logger vectordb.Logger) *Adapter {
	return &Adapter{
		client: client,
		engine: engine,
		logger: vectordb.OrNop(logger),
	}
}

// WithObserver sets the observer notified after every operation.
func (a *Adapter) WithObserver(observer observability.Observer) *Adapter {
	a.observer = observer
	return a
}

// Name returns "azureaisearch".
func (a *Adapter) Name() string { return ProviderName }

// HasCollection reports whether the collection's index exists.
func (a *Adapter) HasCollection(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	index := SanitizeIndexName(name)
	exists, err := a.client.IndexExists(ctx, index)
	a.observeOperation("has_collection", index, start, err, 0)
	if err != nil {
		return false, fmt.Errorf("[AzureSearch] failed to check index '%s': %w", index, err)
	}
	return exists, nil
}

// IndexDefinition returns the index created for a collection of dims-sized vectors.
func IndexDefinition(name string, dims int) Index {
	yes, no := true, false
	return Index{
		Name: name,
		Fields: []Field{
			{Name: "id", Type: "Edm.String", Key: true, Filterable: &yes},
			{Name: "text", Type: "Edm.String", Searchable: &yes},
			{
				Name:                "vector",
				Type:                "Collection(Edm.Single)",
				Searchable:          &yes,
				Retrievable:         &yes,
				Dimensions:          dims,
				VectorSearchProfile: vectorProfile,
			},
			{Name: "payload", Type: "Edm.String", Searchable: &no},
		},
		VectorSearch: &VectorSearch{
			Algorithms: []VectorAlgorithm{{
				Name: hnswAlgorithm,
				Kind: "hnsw",
				HNSWParameters: &HNSWParameters{
					M:              4,
					EfConstruction: 400,
					EfSearch:       500,
					Metric:         "cosine",
				},
			}},
			Profiles: []VectorProfile{{Name: vectorProfile, Algorithm: hnswAlgorithm}},
		},
	}
}

// CreateCollection creates the collection's index. Existing indexes are left untouched.
func (a *Adapter) CreateCollection(ctx context.Context, name string) (err error) {
	start := time.Now()
	index := SanitizeIndexName(name)
	defer func() { a.observeOperation("create_collection", index, start, err, 0) }()

	exists, err := a.client.IndexExists(ctx, index)
	if err != nil {
		return fmt.Errorf("[AzureSearch] failed to check index '%s': %w", index, err)
	}
	if exists {
		return nil
	}

	if err := a.client.CreateOrUpdateIndex(ctx, IndexDefinition(index, a.engine.VectorSize())); err != nil {
		return fmt.Errorf("[AzureSearch] failed to create index '%s': %w", index, err)
	}

	a.logger.Info("Created index", nil, map[string]interface{}{
		"collection":  name,
		"index":       index,
		"vector_size": a.engine.VectorSize(),
	})
	return nil
}

// CreateDataPoints creates the index when missing and uploads one document
// per point. Documents the service rejects are logged, not returned as errors.
func (a *Adapter) CreateDataPoints(ctx context.Context, collection string, points []vectordb.DataPoint) (err error) {
	start := time.Now()
	index := SanitizeIndexName(collection)
	defer func() { a.observeOperation("create_data_points", index, start, err, int64(len(points))) }()

	if err := a.CreateCollection(ctx, collection); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}

	vectors, err := vectordb.EmbedPoints(ctx, a.engine, points)
	if err != nil {
		return err
	}

	actions := make([]IndexAction, len(points))
	for i, dp := range points {
		payload, err := vectordb.EncodePayload(dp.Properties())
		if err != nil {
			return fmt.Errorf("failed to encode payload of point '%s': %w", dp.ID, err)
		}
		actions[i] = IndexAction{
			Action: ActionUpload,
			Document: Document{
				ID:      dp.ID,
				Text:    dp.EmbeddableText(),
				Vector:  vectors[i],
				Payload: payload,
			},
		}
	}

	results, err := a.client.IndexDocuments(ctx, index, actions)
	if err != nil {
		return fmt.Errorf("[AzureSearch] upload to '%s' failed: %w", index, err)
	}
	a.logFailures("upload", index, results)
	return nil
}

// Retrieve looks up each id individually. Missing ids are skipped with a warning.
func (a *Adapter) Retrieve(ctx context.Context, collection string, ids []string) (results []vectordb.ScoredResult, err error) {
	start := time.Now()
	index := SanitizeIndexName(collection)
	defer func() { a.observeOperation("retrieve", index, start, err, int64(len(results))) }()

	if err := a.requireIndex(ctx, collection, index); err != nil {
		return nil, err
	}

	results = make([]vectordb.ScoredResult, 0, len(ids))
	for _, id := range ids {
		doc, err := a.client.GetDocument(ctx, index, id)
		if errors.Is(err, ErrDocumentNotFound) {
			a.logger.Warn("Document not found", nil, map[string]interface{}{
				"id":         id,
				"collection": collection,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("[AzureSearch] failed to get document '%s': %w", id, err)
		}

		payload, _ := vectordb.DecodePayload(doc.Payload)
		payload["id"] = doc.ID
		results = append(results, vectordb.ScoredResult{ID: doc.ID, Payload: payload})
	}
	return results, nil
}

// Search runs a vector query, hybrid with full-text search when QueryText is
// set. The limit is capped at 10000.
func (a *Adapter) Search(ctx context.Context, query vectordb.SearchQuery) (results []vectordb.ScoredResult, err error) {
	start := time.Now()
	index := SanitizeIndexName(query.CollectionName)
	defer func() { a.observeOperation("search", index, start, err, int64(len(results))) }()

	if query.QueryText == "" && len(query.QueryVector) == 0 {
		return nil, fmt.Errorf("%w: one of query_text or query_vector must be provided", vectordb.ErrInvalidValue)
	}
	if query.Limit <= 0 {
		return []vectordb.ScoredResult{}, nil
	}

	exists, err := a.client.IndexExists(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("[AzureSearch] failed to check index '%s': %w", index, err)
	}
	if !exists {
		a.logger.Warn("Collection not found, returning no results", nil, map[string]interface{}{
			"collection": query.CollectionName,
			"index":      index,
		})
		return []vectordb.ScoredResult{}, nil
	}

	vector, err := vectordb.QueryVector(ctx, a.engine, query)
	if err != nil {
		return nil, err
	}

	return a.searchVector(ctx, index, query.QueryText, vector, query.Limit, query.WithVector, query.RawScore)
}

func (a *Adapter) searchVector(ctx context.Context, index, text string, vector []float32, limit int, withVector, raw bool) ([]vectordb.ScoredResult, error) {
	limit = min(max(limit, 1), MaxTop)

	req := SearchRequest{
		Search: "*",
		Top:    limit,
		Select: "id,payload",
		VectorQueries: []VectorQuery{{
			Kind:   "vector",
			Vector: vector,
			K:      limit,
			Fields: "vector",
		}},
	}
	if text != "" {
		req.Search = text
	}
	if withVector {
		req.Select += ",vector"
	}

	hits, err := a.client.Search(ctx, index, req)
	if err != nil {
		return nil, fmt.Errorf("[AzureSearch] search failed: %w", err)
	}

	results := make([]vectordb.ScoredResult, len(hits))
	for i, hit := range hits {
		payload, _ := vectordb.DecodePayload(hit.Payload)
		payload["id"] = hit.ID

		score := float32(hit.Score)
		if !raw {
			score = vectordb.DistanceFromSimilarity(score)
		}
		results[i] = vectordb.ScoredResult{ID: hit.ID, Score: score, Payload: payload, Vector: hit.Vector}
	}
	return results, nil
}

// BatchSearch embeds queryTexts in one call and runs one vector search per text.
func (a *Adapter) BatchSearch(ctx context.Context, collection string, queryTexts []string, limit int, withVectors bool) (results [][]vectordb.ScoredResult, err error) {
	start := time.Now()
	index := SanitizeIndexName(collection)
	defer func() { a.observeOperation("batch_search", index, start, err, int64(len(queryTexts))) }()

	if limit <= 0 {
		return emptyBatch(len(queryTexts)), nil
	}

	exists, err := a.client.IndexExists(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("[AzureSearch] failed to check index '%s': %w", index, err)
	}
	if !exists {
		a.logger.Warn("Collection not found, returning no results", nil, map[string]interface{}{"collection": collection})
		return emptyBatch(len(queryTexts)), nil
	}

	return vectordb.BatchSearch(ctx, a.engine, queryTexts, func(ctx context.Context, vector []float32) ([]vectordb.ScoredResult, error) {
		return a.searchVector(ctx, index, "", vector, limit, withVectors, false)
	})
}

// DeleteDataPoints deletes documents by id. Rejected deletions are logged.
func (a *Adapter) DeleteDataPoints(ctx context.Context, collection string, ids []string) (err error) {
	start := time.Now()
	index := SanitizeIndexName(collection)
	defer func() { a.observeOperation("delete_data_points", index, start, err, int64(len(ids))) }()

	if err := a.requireIndex(ctx, collection, index); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	actions := make([]IndexAction, len(ids))
	for i, id := range ids {
		actions[i] = IndexAction{Action: ActionDelete, Document: Document{ID: id}}
	}

	results, err := a.client.IndexDocuments(ctx, index, actions)
	if err != nil {
		return fmt.Errorf("[AzureSearch] delete from '%s' failed: %w", index, err)
	}
	a.logFailures("delete", index, results)
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

// Prune deletes every index of the service. A failing index is logged and
// the remaining ones are still deleted.
func (a *Adapter) Prune(ctx context.Context) (err error) {
	start := time.Now()
	names, err := a.client.ListIndexes(ctx)
	if err != nil {
		a.observeOperation("prune", "", start, err, 0)
		a.logger.Error("Error during prune operation", err)
		return fmt.Errorf("[AzureSearch] failed to list indexes: %w", err)
	}
	defer func() { a.observeOperation("prune", "", start, err, int64(len(names))) }()

	for _, name := range names {
		if err := a.client.DeleteIndex(ctx, name); err != nil {
			a.logger.Error("Error deleting index", err, map[string]interface{}{"index": name})
			continue
		}
		a.logger.Info("Deleted index", nil, map[string]interface{}{"index": name})
	}
	return nil
}

func (a *Adapter) requireIndex(ctx context.Context, collection, index string) error {
	exists, err := a.client.IndexExists(ctx, index)
	if err != nil {
		return fmt.Errorf("[AzureSearch] failed to check index '%s': %w", index, err)
	}
	if !exists {
		return vectordb.CollectionNotFound(collection)
	}
	return nil
}

func (a *Adapter) logFailures(action, index string, results []IndexingResult) {
	failed := 0
	for _, r := range results {
		if r.Succeeded {
			continue
		}
		failed++
		a.logger.Error("Document failed", nil, map[string]interface{}{
			"action":      action,
			"index":       index,
			"key":         r.Key,
			"message":     r.ErrorMessage,
			"status_code": r.StatusCode,
		})
	}
	if failed > 0 {
		a.logger.Error("Some documents failed", nil, map[string]interface{}{
			"action": action,
			"index":  index,
			"failed": failed,
			"total":  len(results),
		})
	}
}

func emptyBatch(n int) [][]vectordb.ScoredResult {
	out := make([][]vectordb.ScoredResult, n)
	for i := range out {
		out[i] = []vectordb.ScoredResult{}
	}
	return out
}
