// Package vectordbtest provides helpers for testing vectordb adapters.
package vectordbtest

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync/atomic"
)

// HashEngine is a deterministic EmbeddingEngine. Each lowercase word of a text
// is hashed into a bucket, and the bucket counts are L2-normalized, so texts
// sharing words end up close under cosine distance.
type HashEngine struct {
	Dims  int
	calls atomic.Int64
}

// NewHashEngine returns a HashEngine producing vectors of dims dimensions.
func NewHashEngine(dims int) *HashEngine {
	return &HashEngine{Dims: dims}
}

// EmbedText implements vectordb.EmbeddingEngine.
func (e *HashEngine) EmbedText(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.embed(text)
	}
	return out, nil
}

// VectorSize implements vectordb.EmbeddingEngine.
func (e *HashEngine) VectorSize() int { return e.Dims }

// Calls returns how many times EmbedText was called.
func (e *HashEngine) Calls() int64 { return e.calls.Load() }

func (e *HashEngine) embed(text string) []float32 {
	vec := make([]float32, e.Dims)
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		vec[0] = 1
		return vec
	}
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(e.Dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
