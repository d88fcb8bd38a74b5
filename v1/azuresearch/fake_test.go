package azuresearch

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

const testKey = "test-key"

// fakeService is an in-memory Azure AI Search data plane.
type fakeService struct {
	mu       sync.Mutex
	indexes  map[string]Index
	docs     map[string]map[string]Document
	searches []SearchRequest
	failList bool
}

func newFakeService(t *testing.T) (*fakeService, *SearchClient) {
	t.Helper()

	f := &fakeService{indexes: map[string]Index{}, docs: map[string]map[string]Document{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /indexes", f.listIndexes)
	mux.HandleFunc("GET /indexes/{name}", f.getIndex)
	mux.HandleFunc("PUT /indexes/{name}", f.putIndex)
	mux.HandleFunc("DELETE /indexes/{name}", f.deleteIndex)
	mux.HandleFunc("POST /indexes/{name}/docs/index", f.indexDocs)
	mux.HandleFunc("POST /indexes/{name}/docs/search", f.search)
	mux.HandleFunc("GET /indexes/{name}/docs/{key}", f.getDoc)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != testKey {
			http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusForbidden)
			return
		}
		if r.URL.Query().Get("api-version") != DefaultAPIVersion {
			http.Error(w, `{"error":{"message":"bad api-version"}}`, http.StatusBadRequest)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig(srv.URL+"/", testKey)
	cfg.HTTP.MaxRetries = 2
	cfg.HTTP.Backoff = time.Millisecond
	client, err := NewSearchClient(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return f, client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeService) listIndexes(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	names := make([]map[string]string, 0, len(f.indexes))
	for name := range f.indexes {
		names = append(names, map[string]string{"name": name})
	}
	sort.Slice(names, func(i, j int) bool { return names[i]["name"] < names[j]["name"] })
	writeJSON(w, http.StatusOK, map[string]any{"value": names})
}

func (f *fakeService) getIndex(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx, ok := f.indexes[r.PathValue("name")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"message": "No index with the name"}})
		return
	}
	writeJSON(w, http.StatusOK, idx)
}

func (f *fakeService) putIndex(w http.ResponseWriter, r *http.Request) {
	var idx Index
	if err := json.NewDecoder(r.Body).Decode(&idx); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexes[r.PathValue("name")] = idx
	f.docs[r.PathValue("name")] = map[string]Document{}
	writeJSON(w, http.StatusCreated, idx)
}

func (f *fakeService) deleteIndex(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := r.PathValue("name")
	if strings.HasPrefix(name, "locked") {
		http.Error(w, "locked", http.StatusConflict)
		return
	}
	if _, ok := f.indexes[name]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(f.indexes, name)
	delete(f.docs, name)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeService) indexDocs(w http.ResponseWriter, r *http.Request) {
	var batch struct {
		Value []map[string]json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	docs, ok := f.docs[r.PathValue("name")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	status := http.StatusOK
	results := make([]IndexingResult, 0, len(batch.Value))
	for _, raw := range batch.Value {
		var action string
		_ = json.Unmarshal(raw["@search.action"], &action)
		var doc Document
		b, _ := json.Marshal(raw)
		_ = json.Unmarshal(b, &doc)

		if strings.HasPrefix(doc.ID, "bad") {
			status = http.StatusMultiStatus
			results = append(results, IndexingResult{Key: doc.ID, ErrorMessage: "invalid key", StatusCode: 400})
			continue
		}
		switch action {
		case ActionUpload:
			docs[doc.ID] = doc
		case ActionDelete:
			delete(docs, doc.ID)
		}
		results = append(results, IndexingResult{Key: doc.ID, Succeeded: true, StatusCode: 200})
	}
	writeJSON(w, status, map[string]any{"value": results})
}

func (f *fakeService) getDoc(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[r.PathValue("name")][r.PathValue("key")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (f *fakeService) search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, req)

	hits := make([]map[string]any, 0)
	for _, doc := range f.docs[r.PathValue("name")] {
		hit := map[string]any{
			"@search.score": cosine(req.VectorQueries[0].Vector, doc.Vector),
			"id":            doc.ID,
			"payload":       doc.Payload,
		}
		if strings.Contains(req.Select, "vector") {
			hit["vector"] = doc.Vector
		}
		hits = append(hits, hit)
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i]["@search.score"].(float64) > hits[j]["@search.score"].(float64)
	})
	if len(hits) > req.Top {
		hits = hits[:req.Top]
	}
	writeJSON(w, http.StatusOK, map[string]any{"value": hits})
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range min(len(a), len(b)) {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

