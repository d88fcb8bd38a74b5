package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb/vectordbtest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeClient is an in-memory Client. KNNSearch returns the configured hits.
type fakeClient struct {
	mu      sync.Mutex
	indexes map[string]int
	docs    map[string]any
	hits    []redis.Document
	dropped []string
	failAll error
}

func newFakeClient(indexes ...string) *fakeClient {
	f := &fakeClient{indexes: map[string]int{}, docs: map[string]any{}}
	for _, name := range indexes {
		f.indexes[name] = 8
	}
	return f
}

func (f *fakeClient) Ping(context.Context) error    { return f.failAll }
func (f *fakeClient) PoolStats() *redis.PoolStats   { return &redis.PoolStats{} }
func (f *fakeClient) Client() redis.UniversalClient { return nil }
func (f *fakeClient) Close() error                  { return nil }
func (f *fakeClient) CreateIndex(_ context.Context, index string, dims int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexes[index] = dims
	return nil
}

func (f *fakeClient) IndexExists(_ context.Context, index string) (bool, error) {
	if f.failAll != nil {
		return false, f.failAll
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indexes[index]
	return ok, nil
}

func (f *fakeClient) ListIndexes(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for name := range f.indexes {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeClient) DropIndex(_ context.Context, index string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexes, index)
	f.dropped = append(f.dropped, index)
	return nil
}

func (f *fakeClient) KNNSearch(_ context.Context, _ string, _ []float32, k int, _ bool) ([]redis.Document, error) {
	return f.hits[:min(k, len(f.hits))], nil
}

func (f *fakeClient) SetJSONDocuments(_ context.Context, docs map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range docs {
		f.docs[k] = v
	}
	return nil
}

func (f *fakeClient) GetJSONDocuments(_ context.Context, keys []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(keys))
	for i, k := range keys {
		if doc, ok := f.docs[k].(document); ok {
			out[i] = fmt.Sprintf(`{"id":%q,"text":%q,"vector":[],"payload":%q}`, doc.ID, doc.Text, doc.Payload)
		}
	}
	return out, nil
}

func (f *fakeClient) Delete(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.docs[k]; ok {
			delete(f.docs, k)
			n++
		}
	}
	return n, nil
}

func hit(id, distance string) redis.Document {
	return redis.Document{ID: "docs:" + id, Fields: map[string]string{
		"id":          id,
		"payload":     fmt.Sprintf(`{"id":%q}`, id),
		DistanceField: distance,
	}}
}

func TestAdapterCreateCollection(t *testing.T) {
	fc := newFakeClient()
	a := NewAdapter(fc, vectordbtest.NewHashEngine(16), nil)

	require.NoError(t, a.CreateCollection(context.Background(), "docs"))
	assert.Equal(t, 16, fc.indexes["docs"])

	fc.indexes["docs"] = 99
	require.NoError(t, a.CreateCollection(context.Background(), "docs"))
	assert.Equal(t, 99, fc.indexes["docs"], "existing index is kept")

	assert.ErrorIs(t, a.CreateCollection(context.Background(), ""), vectordb.ErrInvalidValue)
}

func TestAdapterCreateDataPoints(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient("docs")
	a := NewAdapter(fc, vectordbtest.NewHashEngine(8), nil)

	err := a.CreateDataPoints(ctx, "missing", []vectordb.DataPoint{{ID: "x"}})
	assert.ErrorIs(t, err, vectordb.ErrCollectionNotFound)

	points := make([]vectordb.DataPoint, defaultBatchSize+5)
	for i := range points {
		points[i] = vectordb.DataPoint{ID: fmt.Sprintf("p%d", i), Payload: map[string]any{"text": "t"}}
	}
	require.NoError(t, a.CreateDataPoints(ctx, "docs", points))
	assert.Len(t, fc.docs, len(points))

	doc := fc.docs["docs:p3"].(document)
	assert.Equal(t, "t", doc.Text)
	assert.Len(t, doc.Vector, 8)

	results, err := a.Retrieve(ctx, "docs", []string{"p3", "nope"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p3", results[0].ID)
	assert.Equal(t, "t", results[0].Payload["text"])

	require.NoError(t, a.DeleteDataPoints(ctx, "docs", []string{"p3"}))
	assert.NotContains(t, fc.docs, "docs:p3")
	assert.ErrorIs(t, a.DeleteDataPoints(ctx, "missing", []string{"p3"}), vectordb.ErrCollectionNotFound)
}

func TestAdapterSearch(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient("docs")
	fc.hits = []redis.Document{hit("a", "0.1"), hit("b", "0.6")}

	ctrl := gomock.NewController(t)
	logger := vectordb.NewMockLogger(ctrl)
	a := NewAdapter(fc, vectordbtest.NewHashEngine(8), logger)

	results, err := a.Search(ctx, vectordb.SearchQuery{CollectionName: "docs", QueryText: "q", Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, 0.05, results[0].Score, 1e-6)
	assert.InDelta(t, 0.3, results[1].Score, 1e-6)

	results, err = a.Search(ctx, vectordb.SearchQuery{CollectionName: "docs", QueryVector: []float32{1}, Limit: 1, RawScore: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.1, results[0].Score, 1e-6)

	logger.EXPECT().Warn("Collection not found, returning no results", nil, gomock.Any()).Times(1)
	results, err = a.Search(ctx, vectordb.SearchQuery{CollectionName: "missing", QueryText: "q", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)

	_, err = a.Search(ctx, vectordb.SearchQuery{CollectionName: "docs", Limit: 5})
	assert.ErrorIs(t, err, vectordb.ErrInvalidValue)
}

func TestAdapterSearchSkipsEmbeddingWhenNothingToSearch(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	// No EmbedText expectation: any embed call fails the test.
	engine := vectordb.NewMockEmbeddingEngine(ctrl)
	logger := vectordb.NewMockLogger(ctrl)
	a := NewAdapter(newFakeClient("docs"), engine, logger)

	results, err := a.Search(ctx, vectordb.SearchQuery{CollectionName: "docs", QueryText: "q", Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, []vectordb.ScoredResult{}, results)

	logger.EXPECT().Warn("Collection not found, returning no results", nil, gomock.Any()).Times(1)
	results, err = a.Search(ctx, vectordb.SearchQuery{CollectionName: "missing", QueryText: "q", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []vectordb.ScoredResult{}, results)
}

func TestAdapterBatchSearchThreshold(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient("docs")
	fc.hits = []redis.Document{hit("a", "0.1"), hit("b", "0.6")}
	engine := vectordbtest.NewHashEngine(8)

	a := NewAdapter(fc, engine, nil)
	results, err := a.BatchSearch(ctx, "docs", []string{"x", "y", "z"}, 5, false)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.EqualValues(t, 1, engine.Calls(), "all texts are embedded at once")
	for _, res := range results {
		require.Len(t, res, 1, "hits at distance 0.1 or more are dropped by default")
		assert.Equal(t, "a", res[0].ID)
		assert.InDelta(t, 0.05, res[0].Score, 1e-6)
	}

	a.WithBatchDistanceThreshold(0)
	results, err = a.BatchSearch(ctx, "docs", []string{"x"}, 5, false)
	require.NoError(t, err)
	assert.Len(t, results[0], 2)

	a.WithBatchDistanceThreshold(0.5)
	results, err = a.BatchSearch(ctx, "docs", []string{"x"}, 5, false)
	require.NoError(t, err)
	assert.Len(t, results[0], 2)

	results, err = a.BatchSearch(ctx, "missing", []string{"x", "y"}, 5, false)
	require.NoError(t, err)
	assert.Equal(t, [][]vectordb.ScoredResult{{}, {}}, results)

	results, err = a.BatchSearch(ctx, "docs", []string{"x"}, 0, false)
	require.NoError(t, err)
	assert.Equal(t, [][]vectordb.ScoredResult{{}}, results)
}

func TestAdapterIndexAndPrune(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient("old")
	a := NewAdapter(fc, vectordbtest.NewHashEngine(8), nil)

	require.NoError(t, a.CreateVectorIndex(ctx, "Entity", "name"))
	require.NoError(t, a.IndexDataPoints(ctx, "Entity", "name", []vectordb.DataPoint{{
		ID:          "e1",
		Payload:     map[string]any{"name": "Ada"},
		IndexFields: []string{"name"},
	}}))
	assert.Equal(t, "Ada", fc.docs["Entity_name:e1"].(document).Text)

	require.NoError(t, a.Prune(ctx))
	assert.ElementsMatch(t, []string{"old", "Entity_name"}, fc.dropped)
	assert.Empty(t, fc.indexes)
}

func TestAdapterPropagatesClientErrors(t *testing.T) {
	boom := errors.New("connection refused")
	fc := newFakeClient()
	fc.failAll = boom
	a := NewAdapter(fc, vectordbtest.NewHashEngine(8), nil)

	_, err := a.HasCollection(context.Background(), "docs")
	assert.ErrorIs(t, err, boom)

	_, err = a.Retrieve(context.Background(), "docs", []string{"x"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, vectordb.IsCollectionNotFound(err))
}

func TestAdapterObserver(t *testing.T) {
	obs := &recordingObserver{}
	a := NewAdapter(newFakeClient("docs"), vectordbtest.NewHashEngine(8), nil).WithObserver(obs)

	_, err := a.HasCollection(context.Background(), "docs")
	require.NoError(t, err)

	ops := obs.ops()
	require.Len(t, ops, 1)
	assert.Equal(t, "redis", ops[0].Component)
	assert.Equal(t, "has_collection", ops[0].Operation)
	assert.Equal(t, "docs", ops[0].Resource)
}
