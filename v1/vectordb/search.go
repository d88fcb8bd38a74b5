package vectordb

import (
	"context"
	"fmt"
)

// ValidateQuery checks that q carries either a text or a vector. Adapters call
// it before any limit or collection check so that embedding happens last.
func ValidateQuery(q SearchQuery) error {
	if q.QueryText == "" && len(q.QueryVector) == 0 {
		return fmt.Errorf("%w: one of query_text or query_vector must be provided", ErrInvalidValue)
	}
	return nil
}

// QueryVector validates q and returns the vector to search with, embedding
// QueryText when no vector was supplied.
func QueryVector(ctx context.Context, engine EmbeddingEngine, q SearchQuery) ([]float32, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}
	if len(q.QueryVector) > 0 {
		return q.QueryVector, nil
	}
	if engine == nil {
		return nil, fmt.Errorf("%w: no embedding engine configured", ErrInvalidValue)
	}

	vectors, err := engine.EmbedText(ctx, []string{q.QueryText})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding engine returned %d vectors for 1 text", len(vectors))
	}
	return vectors[0], nil
}

// EmbedPoints embeds the text of every point and checks the result count.
func EmbedPoints(ctx context.Context, engine EmbeddingEngine, points []DataPoint) ([][]float32, error) {
	if len(points) == 0 {
		return nil, nil
	}
	vectors, err := engine.EmbedText(ctx, EmbeddableTexts(points))
	if err != nil {
		return nil, fmt.Errorf("failed to embed data points: %w", err)
	}
	if len(vectors) != len(points) {
		return nil, fmt.Errorf("embedding engine returned %d vectors for %d points", len(vectors), len(points))
	}
	return vectors, nil
}

// DistanceFromSimilarity turns a cosine similarity into the distance reported
// in ScoredResult.Score.
func DistanceFromSimilarity(similarity float32) float32 {
	return 1 - similarity
}
