package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ProviderName is the name the adapter registers under.
const ProviderName = "qdrant"

// Adapter implements vectordb.Adapter on top of a QdrantClient.
//
// Collections hold a single unnamed cosine vector sized by the embedding
// engine. Payloads are stored natively; Search scores are 1 - similarity.
type Adapter struct {
	client   *QdrantClient
	engine   vectordb.EmbeddingEngine
	logger   vectordb.Logger
	observer observability.Observer
}

var _ vectordb.Adapter = (*Adapter)(nil)

// NewAdapter creates a new Qdrant adapter for the vectordb interface.
func NewAdapter(client *QdrantClient, engine vectordb.EmbeddingEngine, logger vectordb.Logger) *Adapter {
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

// Name returns "qdrant".
func (a *Adapter) Name() string { return ProviderName }

// HasCollection ──────────────────────────────────────────────────────────────
// HasCollection
// ──────────────────────────────────────────────────────────────
func (a *Adapter) HasCollection(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	exists, err := a.client.api.CollectionExists(ctx, name)
	a.observeOperation("has_collection", name, start, err, 0)
	if err != nil {
		return false, fmt.Errorf("[Qdrant] failed to check collection '%s': %w", name, err)
	}
	return exists, nil
}

// CreateCollection ──────────────────────────────────────────────────────────────
// CreateCollection
// ──────────────────────────────────────────────────────────────
//
// CreateCollection creates a cosine collection of engine.VectorSize()
// dimensions. Calling it for an existing collection does nothing.
func (a *Adapter) CreateCollection(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { a.observeOperation("create_collection", name, start, err, 0) }()

	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", vectordb.ErrInvalidValue)
	}

	exists, err := a.client.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to check collection '%s': %w", name, err)
	}
	if exists {
		a.logger.Debug("Collection already exists", nil, map[string]interface{}{"collection": name})
		return nil
	}

	req := &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(a.engine.VectorSize()),
			Distance: qdrant.Distance_Cosine,
		}),
	}

	if err := a.client.api.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", name, err)
	}

	a.logger.Info("Created collection", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": a.engine.VectorSize(),
	})
	return nil
}

// CreateDataPoints ──────────────────────────────────────────────────────────────
// CreateDataPoints
// ──────────────────────────────────────────────────────────────
//
// CreateDataPoints embeds the points and upserts them in batches of 200,
// waiting for each batch to be persisted.
func (a *Adapter) CreateDataPoints(ctx context.Context, collection string, points []vectordb.DataPoint) (err error) {
	start := time.Now()
	defer func() { a.observeOperation("create_data_points", collection, start, err, int64(len(points))) }()

	if len(points) == 0 {
		return nil
	}

	vectors, err := vectordb.EmbedPoints(ctx, a.engine, points)
	if err != nil {
		return err
	}

	structs := make([]*qdrant.PointStruct, len(points))
	for i, dp := range points {
		ps, err := toPointStruct(dp, vectors[i])
		if err != nil {
			return err
		}
		structs[i] = ps
	}

	for _, r := range chunks(len(structs), defaultBatchSize) {
		if err := a.upsertBatch(ctx, collection, structs[r[0]:r[1]]); err != nil {
			return fmt.Errorf("[Qdrant] batch upsert failed at [%d:%d]: %w", r[0], r[1], err)
		}
		a.logger.Debug("Inserted batch", nil, map[string]interface{}{
			"collection": collection,
			"from":       r[0],
			"to":         r[1],
		})
	}
	return nil
}

// upsertBatch sends a single blocking Upsert request.
func (a *Adapter) upsertBatch(ctx context.Context, collection string, batch []*qdrant.PointStruct) error {
	wait := true
	req := &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         batch,
		Wait:           &wait,
	}

	if _, err := a.client.api.Upsert(ctx, req); err != nil {
		return fmt.Errorf("[Qdrant] upsert failed: %w", err)
	}
	return nil
}

// Retrieve ──────────────────────────────────────────────────────────────
// Retrieve
// ──────────────────────────────────────────────────────────────
func (a *Adapter) Retrieve(ctx context.Context, collection string, ids []string) (results []vectordb.ScoredResult, err error) {
	start := time.Now()
	defer func() { a.observeOperation("retrieve", collection, start, err, int64(len(results))) }()

	if err := a.requireCollection(ctx, collection); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []vectordb.ScoredResult{}, nil
	}

	pointIDs, err := toPointIDs(ids)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] retrieve failed: %w", err)
	}

	return parseRetrievedPoints(resp)
}

// Search ──────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────
//
// Search embeds the query text when no vector is given and queries the
// collection. A missing collection yields an empty result and a warning.
func (a *Adapter) Search(ctx context.Context, query vectordb.SearchQuery) (results []vectordb.ScoredResult, err error) {
	start := time.Now()
	defer func() { a.observeOperation("search", query.CollectionName, start, err, int64(len(results))) }()

	if err := vectordb.ValidateQuery(query); err != nil {
		return nil, err
	}
	if query.Limit <= 0 {
		return []vectordb.ScoredResult{}, nil
	}

	exists, err := a.client.api.CollectionExists(ctx, query.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to check collection '%s': %w", query.CollectionName, err)
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
	l := uint64(limit)
	resp, err := a.client.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &l,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(withVector),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search failed: %w", err)
	}

	return parseScoredPoints(resp, raw)
}

// BatchSearch ──────────────────────────────────────────────────────────────
// BatchSearch
// ──────────────────────────────────────────────────────────────
func (a *Adapter) BatchSearch(ctx context.Context, collection string, queryTexts []string, limit int, withVectors bool) (results [][]vectordb.ScoredResult, err error) {
	start := time.Now()
	defer func() { a.observeOperation("batch_search", collection, start, err, int64(len(queryTexts))) }()

	if limit <= 0 {
		return emptyBatch(len(queryTexts)), nil
	}

	exists, err := a.client.api.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to check collection '%s': %w", collection, err)
	}
	if !exists {
		a.logger.Warn("Collection not found, returning no results", nil, map[string]interface{}{"collection": collection})
		return emptyBatch(len(queryTexts)), nil
	}

	return vectordb.BatchSearch(ctx, a.engine, queryTexts, func(ctx context.Context, vector []float32) ([]vectordb.ScoredResult, error) {
		return a.searchVector(ctx, collection, vector, limit, withVectors, false)
	})
}

// DeleteDataPoints ──────────────────────────────────────────────────────────────
// DeleteDataPoints
// ──────────────────────────────────────────────────────────────
func (a *Adapter) DeleteDataPoints(ctx context.Context, collection string, ids []string) (err error) {
	start := time.Now()
	defer func() { a.observeOperation("delete_data_points", collection, start, err, int64(len(ids))) }()

	if err := a.requireCollection(ctx, collection); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	pointIDs, err := toPointIDs(ids)
	if err != nil {
		return err
	}

	wait := true
	resp, err := a.client.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] delete failed: %w", err)
	}

	a.logger.Debug("Deleted points", nil, map[string]interface{}{
		"collection": collection,
		"count":      len(ids),
		"status":     resp.GetStatus().String(),
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

// Prune ──────────────────────────────────────────────────────────────
// Prune
// ──────────────────────────────────────────────────────────────
//
// Prune deletes every collection on the server.
func (a *Adapter) Prune(ctx context.Context) (err error) {
	start := time.Now()
	names, err := a.client.api.ListCollections(ctx)
	if err != nil {
		a.observeOperation("prune", "", start, err, 0)
		return fmt.Errorf("[Qdrant] failed to list collections: %w", err)
	}
	defer func() { a.observeOperation("prune", "", start, err, int64(len(names))) }()

	for _, name := range names {
		if err := a.client.api.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("[Qdrant] failed to delete collection '%s': %w", name, err)
		}
		a.logger.Info("Deleted collection", nil, map[string]interface{}{"collection": name})
	}
	return nil
}

// CollectionInfo returns size and distance details of a collection.
func (a *Adapter) CollectionInfo(ctx context.Context, name string) (*Collection, error) {
	info, err := a.client.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to get collection '%s': %w", name, err)
	}

	size, distance := vectorParams(info)
	return &Collection{
		Name:       name,
		Status:     info.GetStatus().String(),
		Vectors:    info.GetIndexedVectorsCount(),
		Points:     info.GetPointsCount(),
		VectorSize: size,
		Distance:   distance,
	}, nil
}

// Collection summarizes a collection's configuration and size.
type Collection struct {
	Name       string
	Status     string
	Vectors    uint64
	Points     uint64
	VectorSize int
	Distance   string
}

func (a *Adapter) requireCollection(ctx context.Context, name string) error {
	exists, err := a.client.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to check collection '%s': %w", name, err)
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
