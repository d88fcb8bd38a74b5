package redis

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"github.com/redis/go-redis/v9"
)

// document is the JSON stored for every point.
type document struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Vector  []float32 `json:"vector"`
	Payload string    `json:"payload"`
}

// EncodeVector packs v as little-endian FLOAT32, the blob format KNN expects.
func EncodeVector(v []float32) string {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// DecodeVector unpacks a blob written by EncodeVector.
func DecodeVector(blob string) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("%w: vector blob length %d is not a multiple of 4", vectordb.ErrInvalidValue, len(blob))
	}
	b := []byte(blob)
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// newDocument builds the stored document of a point.
func newDocument(dp vectordb.DataPoint, vector []float32) (document, error) {
	payload, err := vectordb.EncodePayload(dp.Properties())
	if err != nil {
		return document{}, fmt.Errorf("failed to encode payload of point '%s': %w", dp.ID, err)
	}
	return document{
		ID:      dp.ID,
		Text:    dp.EmbeddableText(),
		Vector:  vector,
		Payload: payload,
	}, nil
}

// parseSearchDocument converts a KNN hit. The stored distance is in [0, 2];
// unless raw is set the score is halved into [0, 1].
func parseSearchDocument(doc redis.Document, raw bool) (vectordb.ScoredResult, error) {
	distance, err := strconv.ParseFloat(doc.Fields[DistanceField], 32)
	if err != nil {
		return vectordb.ScoredResult{}, fmt.Errorf("invalid %s %q in document '%s': %w",
			DistanceField, doc.Fields[DistanceField], doc.ID, err)
	}
	score := float32(distance)
	if !raw {
		score /= 2
	}

	id := doc.Fields["id"]
	payload, _ := vectordb.DecodePayload(doc.Fields["payload"])
	if id == "" {
		id, _ = payload["id"].(string)
	}
	payload["id"] = id

	result := vectordb.ScoredResult{ID: id, Score: score, Payload: payload}
	if s, ok := doc.Fields["vector"]; ok && s != "" {
		if result.Vector, err = decodeJSONVector(s); err != nil {
			return vectordb.ScoredResult{}, err
		}
	}
	return result, nil
}

// parseStoredDocument converts the JSON.GET result of a point. When the stored
// payload can't be decoded, the whole document minus its vector is returned
// as payload.
func parseStoredDocument(raw string) (vectordb.ScoredResult, error) {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return vectordb.ScoredResult{}, fmt.Errorf("invalid stored document: %w", err)
	}

	payload, ok := vectordb.DecodePayload(doc.Payload)
	if !ok {
		payload = map[string]any{"id": doc.ID, "text": doc.Text, "payload": doc.Payload}
	}
	payload["id"] = doc.ID

	return vectordb.ScoredResult{ID: doc.ID, Payload: payload}, nil
}

// decodeJSONVector parses a returned "$.vector", which RediSearch may wrap in
// an outer array.
func decodeJSONVector(s string) ([]float32, error) {
	var v []float32
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, nil
	}
	var wrapped [][]float32
	if err := json.Unmarshal([]byte(s), &wrapped); err != nil {
		return nil, fmt.Errorf("invalid stored vector: %w", err)
	}
	if len(wrapped) == 0 {
		return nil, nil
	}
	return wrapped[0], nil
}
