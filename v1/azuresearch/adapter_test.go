package azuresearch

import (
	"context"
	"testing"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb/vectordbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func point(id, text string) vectordb.DataPoint {
	return vectordb.DataPoint{ID: id, Payload: map[string]any{"text": text, "source": "docs"}}
}

func TestAdapterCollections(t *testing.T) {
	ctx := context.Background()
	svc, client := newFakeService(t)
	a := NewAdapter(client, vectordbtest.NewHashEngine(16), nil)

	exists, err := a.HasCollection(ctx, "Entity_name")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, a.CreateCollection(ctx, "Entity_name"))
	require.NoError(t, a.CreateCollection(ctx, "Entity_name"))

	exists, err = a.HasCollection(ctx, "Entity_name")
	require.NoError(t, err)
	assert.True(t, exists)

	idx := svc.indexes["entity-name"]
	require.Len(t, idx.Fields, 4)
	assert.Equal(t, "id", idx.Fields[0].Name)
	assert.True(t, idx.Fields[0].Key)
	assert.Equal(t, 16, idx.Fields[2].Dimensions)
	assert.Equal(t, "vector-profile", idx.Fields[2].VectorSearchProfile)
	require.NotNil(t, idx.VectorSearch)
	assert.Equal(t, HNSWParameters{M: 4, EfConstruction: 400, EfSearch: 500, Metric: "cosine"},
		*idx.VectorSearch.Algorithms[0].HNSWParameters)
}

func TestAdapterCreateSearchRetrieve(t *testing.T) {
	ctx := context.Background()
	svc, client := newFakeService(t)
	engine := vectordbtest.NewHashEngine(32)
	a := NewAdapter(client, engine, nil)

	// The index is created on first write.
	require.NoError(t, a.CreateDataPoints(ctx, "Docs", []vectordb.DataPoint{
		point("a", "pipelines load data"),
		point("b", "azure search stores documents"),
		point("c", "cookie consent banner"),
	}))
	assert.Len(t, svc.docs["docs"], 3)

	results, err := a.Search(ctx, vectordb.SearchQuery{
		CollectionName: "Docs",
		QueryText:      "azure search stores documents",
		Limit:          2,
		WithVector:     true,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].ID)
	assert.InDelta(t, 0, results[0].Score, 1e-5)
	assert.Equal(t, "b", results[0].Payload["id"])
	assert.Equal(t, "docs", results[0].Payload["source"])
	assert.Len(t, results[0].Vector, 32)

	last := svc.searches[len(svc.searches)-1]
	assert.Equal(t, "azure search stores documents", last.Search, "text queries are hybrid")
	assert.Equal(t, 2, last.Top)
	assert.Equal(t, "id,payload,vector", last.Select)

	vec, err := engine.EmbedText(ctx, []string{"cookie consent banner"})
	require.NoError(t, err)
	raw, err := a.Search(ctx, vectordb.SearchQuery{CollectionName: "Docs", QueryVector: vec[0], Limit: 20000, RawScore: true})
	require.NoError(t, err)
	assert.Equal(t, "c", raw[0].ID)
	assert.InDelta(t, 1, raw[0].Score, 1e-5)
	last = svc.searches[len(svc.searches)-1]
	assert.Equal(t, "*", last.Search)
	assert.Equal(t, MaxTop, last.Top)
	assert.Equal(t, "id,payload", last.Select)

	ctrl := gomock.NewController(t)
	logger := vectordb.NewMockLogger(ctrl)
	a = NewAdapter(client, engine, logger)

	logger.EXPECT().Warn("Document not found", nil, gomock.Any()).Times(1)
	got, err := a.Retrieve(ctx, "Docs", []string{"a", "zzz"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "pipelines load data", got[0].Payload["text"])
	assert.Zero(t, got[0].Score)
}

func TestAdapterSearchEdgeCases(t *testing.T) {
	ctx := context.Background()
	_, client := newFakeService(t)
	a := NewAdapter(client, vectordbtest.NewHashEngine(8), nil)

	_, err := a.Search(ctx, vectordb.SearchQuery{CollectionName: "docs", Limit: 3})
	assert.ErrorIs(t, err, vectordb.ErrInvalidValue)

	results, err := a.Search(ctx, vectordb.SearchQuery{CollectionName: "missing", QueryText: "x", Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = a.Search(ctx, vectordb.SearchQuery{CollectionName: "docs", QueryText: "x", Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = a.Retrieve(ctx, "missing", []string{"a"})
	assert.ErrorIs(t, err, vectordb.ErrCollectionNotFound)
	assert.ErrorIs(t, a.DeleteDataPoints(ctx, "missing", []string{"a"}), vectordb.ErrCollectionNotFound)
}

func TestAdapterBatchSearch(t *testing.T) {
	ctx := context.Background()
	_, client := newFakeService(t)
	engine := vectordbtest.NewHashEngine(32)
	a := NewAdapter(client, engine, nil)

	require.NoError(t, a.CreateDataPoints(ctx, "docs", []vectordb.DataPoint{
		point("a", "alpha beta"),
		point("b", "gamma delta"),
	}))
	before := engine.Calls()

	results, err := a.BatchSearch(ctx, "docs", []string{"gamma delta", "alpha beta", "alpha"}, 1, false)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "b", results[0][0].ID)
	assert.Equal(t, "a", results[1][0].ID)
	assert.Equal(t, "a", results[2][0].ID)
	assert.EqualValues(t, 1, engine.Calls()-before)

	results, err = a.BatchSearch(ctx, "missing", []string{"x"}, 1, false)
	require.NoError(t, err)
	assert.Equal(t, [][]vectordb.ScoredResult{{}}, results)
}

func TestAdapterLogsFailedDocuments(t *testing.T) {
	ctx := context.Background()
	svc, client := newFakeService(t)
	ctrl := gomock.NewController(t)
	logger := vectordb.NewMockLogger(ctrl)
	a := NewAdapter(client, vectordbtest.NewHashEngine(8), logger)

	logger.EXPECT().Info("Created index", nil, gomock.Any())
	logger.EXPECT().Error("Document failed", nil, gomock.Any()).Do(func(_ string, _ error, fields ...map[string]interface{}) {
		assert.Equal(t, "bad-1", fields[0]["key"])
		assert.Equal(t, "invalid key", fields[0]["message"])
	})
	logger.EXPECT().Error("Some documents failed", nil, gomock.Any())

	require.NoError(t, a.CreateDataPoints(ctx, "docs", []vectordb.DataPoint{point("ok", "x"), point("bad-1", "y")}))
	assert.Contains(t, svc.docs["docs"], "ok")
	assert.NotContains(t, svc.docs["docs"], "bad-1")

	require.NoError(t, a.DeleteDataPoints(ctx, "docs", []string{"ok"}))
	assert.Empty(t, svc.docs["docs"])
}

func TestAdapterIndexAndPrune(t *testing.T) {
	ctx := context.Background()
	svc, client := newFakeService(t)
	ctrl := gomock.NewController(t)
	logger := vectordb.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), nil, gomock.Any()).AnyTimes()
	a := NewAdapter(client, vectordbtest.NewHashEngine(8), logger)

	require.NoError(t, a.CreateVectorIndex(ctx, "Entity", "name"))
	require.NoError(t, a.IndexDataPoints(ctx, "Entity", "name", []vectordb.DataPoint{{
		ID:          "e1",
		Payload:     map[string]any{"name": "Ada"},
		IndexFields: []string{"name"},
	}}))
	assert.Equal(t, "Ada", svc.docs["entity-name"]["e1"].Text)

	require.NoError(t, a.CreateCollection(ctx, "locked"))

	logger.EXPECT().Error("Error deleting index", gomock.Any(), gomock.Any()).Times(1)
	require.NoError(t, a.Prune(ctx))
	assert.Equal(t, []string{"locked"}, keys(svc.indexes))

	svc.failList = true
	logger.EXPECT().Error("Error during prune operation", gomock.Any()).Times(1)
	assert.Error(t, a.Prune(ctx))
}

func TestRegistryRequiresCredentials(t *testing.T) {
	engine := vectordbtest.NewHashEngine(8)

	_, err := vectordb.New(ProviderName, vectordb.ProviderConfig{URL: "https://x.search.windows.net"}, engine, nil)
	assert.ErrorIs(t, err, vectordb.ErrInitialization)

	store, err := vectordb.New(ProviderName, vectordb.ProviderConfig{URL: "https://x.search.windows.net", APIKey: "k"}, engine, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderName, store.Name())
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
