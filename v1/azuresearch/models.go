package azuresearch

import "encoding/json"

// Index is the REST representation of a search index.
type Index struct {
	Name         string        `json:"name"`
	Fields       []Field       `json:"fields"`
	VectorSearch *VectorSearch `json:"vectorSearch,omitempty"`
}

// Field is an index field definition.
type Field struct {
	Name                string `json:"name"`
	Type                string `json:"type"`
	Key                 bool   `json:"key,omitempty"`
	Filterable          *bool  `json:"filterable,omitempty"`
	Searchable          *bool  `json:"searchable,omitempty"`
	Retrievable         *bool  `json:"retrievable,omitempty"`
	Dimensions          int    `json:"dimensions,omitempty"`
	VectorSearchProfile string `json:"vectorSearchProfile,omitempty"`
}

// VectorSearch configures the vector algorithms and profiles of an index.
type VectorSearch struct {
	Algorithms []VectorAlgorithm `json:"algorithms"`
	Profiles   []VectorProfile   `json:"profiles"`
}

// VectorAlgorithm is a named HNSW configuration.
type VectorAlgorithm struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	HNSWParameters *HNSWParameters `json:"hnswParameters,omitempty"`
}

// HNSWParameters tune the HNSW graph.
type HNSWParameters struct {
	M              int    `json:"m"`
	EfConstruction int    `json:"efConstruction"`
	EfSearch       int    `json:"efSearch"`
	Metric         string `json:"metric"`
}

// VectorProfile binds vector fields to an algorithm.
type VectorProfile struct {
	Name      string `json:"name"`
	Algorithm string `json:"algorithm"`
}

// Document is the stored form of a data point.
type Document struct {
	ID      string    `json:"id"`
	Text    string    `json:"text,omitempty"`
	Vector  []float32 `json:"vector,omitempty"`
	Payload string    `json:"payload,omitempty"`
}

// IndexAction is a single upload or delete in a batch.
type IndexAction struct {
	Action string `json:"@search.action"`
	Document
}

type indexBatch struct {
	Value []IndexAction `json:"value"`
}

// IndexingResult reports the outcome of one IndexAction.
type IndexingResult struct {
	Key          string `json:"key"`
	Succeeded    bool   `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	StatusCode   int    `json:"statusCode"`
}

type indexingResponse struct {
	Value []IndexingResult `json:"value"`
}

// SearchRequest is the body of docs/search.
type SearchRequest struct {
	Search        string        `json:"search"`
	Top           int           `json:"top"`
	Select        string        `json:"select,omitempty"`
	VectorQueries []VectorQuery `json:"vectorQueries,omitempty"`
}

// VectorQuery is a k-nearest-neighbour query on a vector field.
type VectorQuery struct {
	Kind   string    `json:"kind"`
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
	Fields string    `json:"fields"`
}

// SearchHit is one search result.
type SearchHit struct {
	Score float64 `json:"@search.score"`
	Document
}

type searchResponse struct {
	Value []SearchHit `json:"value"`
}

type indexList struct {
	Value []struct {
		Name string `json:"name"`
	} `json:"value"`
}

// MarshalJSON flattens the action marker into the document object.
func (a IndexAction) MarshalJSON() ([]byte, error) {
	doc := map[string]any{"@search.action": a.Action, "id": a.ID}
	if a.Action != ActionDelete {
		doc["text"] = a.Text
		doc["vector"] = a.Vector
		doc["payload"] = a.Payload
	}
	return json.Marshal(doc)
}

const (
	ActionUpload = "upload"
	ActionDelete = "delete"
)
