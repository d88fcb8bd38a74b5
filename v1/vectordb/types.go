package vectordb

import "fmt"

const (
	// DefaultSearchLimit is used when callers don't specify a limit.
	DefaultSearchLimit = 15

	// DefaultIndexField is the payload field embedded when a point declares none.
	DefaultIndexField = "text"
)

// DataPoint is a unit of data written to a collection.
type DataPoint struct {
	// ID uniquely identifies the point within its collection (usually a UUID).
	ID string `json:"id"`

	// Payload holds the point's own properties; it is stored alongside the vector.
	Payload map[string]any `json:"payload"`

	// IndexFields lists the payload fields whose text is embedded.
	// Only the first one is used; empty means "text".
	IndexFields []string `json:"index_fields,omitempty"`
}

// NewIndexPoint builds the minimal point stored in a property index collection.
func NewIndexPoint(id, text string) DataPoint {
	return DataPoint{
		ID:          id,
		Payload:     map[string]any{DefaultIndexField: text},
		IndexFields: []string{DefaultIndexField},
	}
}

// IndexField returns the payload field that is embedded for this point.
func (d DataPoint) IndexField() string {
	if len(d.IndexFields) == 0 || d.IndexFields[0] == "" {
		return DefaultIndexField
	}
	return d.IndexFields[0]
}

// EmbeddableText returns the text of the point's index field.
// Non-string values are formatted with fmt.
func (d DataPoint) EmbeddableText() string {
	v, ok := d.Payload[d.IndexField()]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Properties returns a JSON-safe copy of the payload with "id" set.
func (d DataPoint) Properties() map[string]any {
	props := NormalizePayload(d.Payload)
	props["id"] = d.ID
	if len(d.IndexFields) > 0 {
		fields := make([]any, len(d.IndexFields))
		for i, f := range d.IndexFields {
			fields[i] = f
		}
		props["metadata"] = map[string]any{"index_fields": fields}
	}
	return props
}

// ScoredResult is a point returned by Search or Retrieve.
type ScoredResult struct {
	// ID is the point identifier
	ID string `json:"id"`

	// Score is a distance (lower is closer) unless the query asked for raw scores.
	// Retrieve always reports 0.
	Score float32 `json:"score"`

	// Payload is the decoded stored payload
	Payload map[string]any `json:"payload"`

	// Vector is the stored embedding, populated only when requested
	Vector []float32 `json:"vector,omitempty"`
}

// SearchQuery describes a single similarity search.
type SearchQuery struct {
	// CollectionName is the collection to search
	CollectionName string `json:"collectionName"`

	// QueryText is embedded when QueryVector is empty. Some backends also use it
	// for hybrid keyword matching.
	QueryText string `json:"queryText,omitempty"`

	// QueryVector is the query embedding
	QueryVector []float32 `json:"queryVector,omitempty"`

	// Limit is the maximum number of results. Non-positive values return no results.
	Limit int `json:"limit"`

	// WithVector requests stored vectors in the results
	WithVector bool `json:"withVector,omitempty"`

	// RawScore returns the backend's native score instead of a distance
	RawScore bool `json:"rawScore,omitempty"`
}

// NewSearchQuery returns a text query with DefaultSearchLimit.
func NewSearchQuery(collection, text string) SearchQuery {
	return SearchQuery{CollectionName: collection, QueryText: text, Limit: DefaultSearchLimit}
}

// IndexCollectionName is the collection backing an index on a property.
func IndexCollectionName(indexName, propertyName string) string {
	return indexName + "_" + propertyName
}

// IndexPoints converts points into index points carrying only their embeddable text.
func IndexPoints(points []DataPoint) []DataPoint {
	out := make([]DataPoint, len(points))
	for i, p := range points {
		out[i] = NewIndexPoint(p.ID, p.EmbeddableText())
	}
	return out
}

// EmbeddableTexts returns the embeddable text of every point, in order.
func EmbeddableTexts(points []DataPoint) []string {
	texts := make([]string, len(points))
	for i, p := range points {
		texts[i] = p.EmbeddableText()
	}
	return texts
}
