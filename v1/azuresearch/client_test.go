package azuresearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchClientRetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/indexes", r.URL.Path)
		assert.Equal(t, "name", r.URL.Query().Get("$select"))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"value":[{"name":"a"},{"name":"b"}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig(srv.URL, "k")
	cfg.HTTP.Backoff = time.Millisecond
	client, err := NewSearchClient(cfg)
	require.NoError(t, err)

	names, err := client.ListIndexes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.EqualValues(t, 2, calls.Load())
}

func TestSearchClientErrors(t *testing.T) {
	ctx := context.Background()
	_, client := newFakeService(t)

	_, err := client.GetIndex(ctx, "nope")
	assert.ErrorIs(t, err, ErrIndexNotFound)

	exists, err := client.IndexExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, client.DeleteIndex(ctx, "nope"), ErrIndexNotFound)

	require.NoError(t, client.CreateOrUpdateIndex(ctx, IndexDefinition("docs", 4)))
	_, err = client.GetDocument(ctx, "docs", "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	bad := NewSearchClientWithHTTP(Config{Endpoint: "http://127.0.0.1:1", APIKey: "x"}, client.HTTP())
	_, err = bad.IndexExists(ctx, "docs")
	assert.Error(t, err)
}

func TestSearchClientRejectsWrongKey(t *testing.T) {
	_, client := newFakeService(t)
	wrong := NewSearchClientWithHTTP(Config{Endpoint: client.endpoint, APIKey: "wrong"}, client.HTTP())

	_, err := wrong.ListIndexes(context.Background())
	assert.True(t, httpretry.IsStatus(err, http.StatusForbidden))
}

func TestIndexActionJSON(t *testing.T) {
	b, err := json.Marshal(IndexAction{Action: ActionDelete, Document: Document{ID: "a", Text: "ignored"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"@search.action":"delete","id":"a"}`, string(b))

	b, err = json.Marshal(IndexAction{Action: ActionUpload, Document: Document{ID: "a", Text: "t", Vector: []float32{1}, Payload: "{}"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"@search.action":"upload","id":"a","text":"t","vector":[1],"payload":"{}"}`, string(b))
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{APIKey: "k"}.Validate())
	assert.Error(t, Config{Endpoint: "https://x"}.Validate())
	assert.NoError(t, DefaultConfig("https://x", "k").Validate())
	assert.Equal(t, DefaultAPIVersion, Config{}.apiVersion())
}
