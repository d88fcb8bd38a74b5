package vectordb

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentSearches limits parallel searches in BatchSearch.
const maxConcurrentSearches = 10

// SearchFunc runs one search for an already-embedded query vector.
type SearchFunc func(ctx context.Context, vector []float32) ([]ScoredResult, error)

// BatchSearch embeds queryTexts in one call and runs search for each vector in
// parallel. Results keep the order of queryTexts. The first failing search
// cancels the rest.
func BatchSearch(ctx context.Context, engine EmbeddingEngine, queryTexts []string, search SearchFunc) ([][]ScoredResult, error) {
	if len(queryTexts) == 0 {
		return [][]ScoredResult{}, nil
	}

	vectors, err := engine.EmbedText(ctx, queryTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query texts: %w", err)
	}
	if len(vectors) != len(queryTexts) {
		return nil, fmt.Errorf("embedding engine returned %d vectors for %d texts", len(vectors), len(queryTexts))
	}

	results := make([][]ScoredResult, len(vectors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSearches)

	for i, vec := range vectors {
		g.Go(func() error {
			res, err := search(gctx, vec)
			if err != nil {
				return fmt.Errorf("search %d failed: %w", i, err)
			}
			if res == nil {
				res = []ScoredResult{}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
