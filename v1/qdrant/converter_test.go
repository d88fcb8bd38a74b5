package qdrant

import (
	"errors"
	"testing"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPointID(t *testing.T) {
	id, err := toPointID("7F1C1C5E-2B1A-4C35-9A63-3C1DE1B0B0A1")
	require.NoError(t, err)
	assert.Equal(t, "7f1c1c5e-2b1a-4c35-9a63-3c1de1b0b0a1", id.GetUuid())

	id, err = toPointID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id.GetNum())

	_, err = toPointID("doc-1")
	assert.True(t, errors.Is(err, vectordb.ErrInvalidValue))

	_, err = toPointIDs([]string{"1", "-1"})
	assert.ErrorIs(t, err, vectordb.ErrInvalidValue)
}

func TestExtractPointID(t *testing.T) {
	id, err := extractPointID(qdrant.NewIDNum(7))
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	id, err = extractPointID(qdrant.NewID("7f1c1c5e-2b1a-4c35-9a63-3c1de1b0b0a1"))
	require.NoError(t, err)
	assert.Equal(t, "7f1c1c5e-2b1a-4c35-9a63-3c1de1b0b0a1", id)

	_, err = extractPointID(nil)
	assert.Error(t, err)
}

func TestToPointStruct(t *testing.T) {
	dp := vectordb.DataPoint{
		ID:      "7f1c1c5e-2b1a-4c35-9a63-3c1de1b0b0a1",
		Payload: map[string]any{"text": "hello", "tags": []string{"a"}, "n": 3},
	}

	ps, err := toPointStruct(dp, []float32{0.1, 0.2})
	require.NoError(t, err)

	payload := convertPayload(ps.Payload)
	assert.Equal(t, "hello", payload["text"])
	assert.Equal(t, dp.ID, payload["id"])
	assert.Equal(t, []any{"a"}, payload["tags"])
	assert.Equal(t, int64(3), payload["n"])
}

func TestParseScoredPoints(t *testing.T) {
	points := []*qdrant.ScoredPoint{
		{
			Id:      qdrant.NewIDNum(1),
			Score:   0.75,
			Payload: qdrant.NewValueMap(map[string]any{"text": "a"}),
		},
		{
			Id:    qdrant.NewIDNum(2),
			Score: 1,
		},
	}

	results, err := parseScoredPoints(points, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, 0.25, results[0].Score, 1e-6)
	assert.Equal(t, map[string]any{"text": "a", "id": "1"}, results[0].Payload)
	assert.InDelta(t, 0, results[1].Score, 1e-6)
	assert.Equal(t, "2", results[1].Payload["id"])
	assert.Nil(t, results[0].Vector)

	raw, err := parseScoredPoints(points, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, raw[0].Score, 1e-6)
}

func TestExtractValue_Nested(t *testing.T) {
	values := qdrant.NewValueMap(map[string]any{
		"meta": map[string]any{"fields": []any{"text", 2.5, true, nil}},
	})

	got := convertPayload(values)
	assert.Equal(t, map[string]any{
		"meta": map[string]any{"fields": []any{"text", 2.5, true, nil}},
	}, got)
}

func TestChunks(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 200}, {200, 400}, {400, 401}}, chunks(401, 200))
	assert.Empty(t, chunks(0, 200))
}

func TestVectorParams(t *testing.T) {
	info := &qdrant.CollectionInfo{
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     384,
					Distance: qdrant.Distance_Cosine,
				}),
			},
		},
	}
	size, distance := vectorParams(info)
	assert.Equal(t, 384, size)
	assert.Equal(t, "Cosine", distance)

	size, distance = vectorParams(&qdrant.CollectionInfo{})
	assert.Zero(t, size)
	assert.Empty(t, distance)

	size, _ = vectorParams(nil)
	assert.Zero(t, size)
}

func TestGRPCConfig(t *testing.T) {
	got := grpcConfig(Config{Endpoint: "qdrant.internal", ApiKey: "k", UseTLS: true})
	assert.Equal(t, "qdrant.internal", got.Host)
	assert.Equal(t, DefaultGRPCPort, got.Port)
	assert.Equal(t, "k", got.APIKey)
	assert.True(t, got.UseTLS)
	assert.True(t, got.SkipCompatibilityCheck)

	got = grpcConfig(Config{Endpoint: "localhost", Port: 7334, CheckCompatibility: true})
	assert.Equal(t, 7334, got.Port)
	assert.False(t, got.SkipCompatibilityCheck)
}
