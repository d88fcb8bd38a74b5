package qdrant

import (
	"fmt"
	"strconv"

	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
)

// ── ID Conversion ────────────────────────────────────────────────────────────

// toPointID converts a data point id to a Qdrant PointId.
// Qdrant only accepts UUIDs and unsigned integers.
func toPointID(id string) (*qdrant.PointId, error) {
	if u, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(u.String()), nil
	}
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n), nil
	}
	return nil, fmt.Errorf("%w: point id %q is neither a UUID nor an unsigned integer", vectordb.ErrInvalidValue, id)
}

func toPointIDs(ids []string) ([]*qdrant.PointId, error) {
	out := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pid, err := toPointID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, pid)
	}
	return out, nil
}

// extractPointID extracts a string ID from Qdrant's PointId type.
func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// ── Point Conversion ─────────────────────────────────────────────────────────

// toPointStruct builds the upsert payload for a data point and its vector.
func toPointStruct(dp vectordb.DataPoint, vector []float32) (*qdrant.PointStruct, error) {
	id, err := toPointID(dp.ID)
	if err != nil {
		return nil, err
	}

	payload, err := qdrant.TryValueMap(dp.Properties())
	if err != nil {
		return nil, fmt.Errorf("%w: payload of point %s: %v", vectordb.ErrInvalidValue, dp.ID, err)
	}

	return &qdrant.PointStruct{
		Id:      id,
		Vectors: qdrant.NewVectors(vector...),
		Payload: payload,
	}, nil
}

// ── Result Conversion ────────────────────────────────────────────────────────

// parseScoredPoints converts query results. Similarities become distances
// unless raw is set.
func parseScoredPoints(resp []*qdrant.ScoredPoint, raw bool) ([]vectordb.ScoredResult, error) {
	results := make([]vectordb.ScoredResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.Id)
		if err != nil {
			return nil, err
		}

		score := r.Score
		if !raw {
			score = vectordb.DistanceFromSimilarity(score)
		}

		results = append(results, vectordb.ScoredResult{
			ID:      id,
			Score:   score,
			Payload: payloadWithID(convertPayload(r.Payload), id),
			Vector:  extractVector(r.Vectors),
		})
	}
	return results, nil
}

// parseRetrievedPoints converts Get results; their score is always 0.
func parseRetrievedPoints(resp []*qdrant.RetrievedPoint) ([]vectordb.ScoredResult, error) {
	results := make([]vectordb.ScoredResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.Id)
		if err != nil {
			return nil, err
		}
		results = append(results, vectordb.ScoredResult{
			ID:      id,
			Payload: payloadWithID(convertPayload(r.Payload), id),
			Vector:  extractVector(r.Vectors),
		})
	}
	return results, nil
}

func payloadWithID(payload map[string]any, id string) map[string]any {
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["id"]; !ok {
		payload["id"] = id
	}
	return payload
}

// extractVector returns the unnamed dense vector, or nil when vectors weren't requested.
func extractVector(v *qdrant.VectorsOutput) []float32 {
	if v == nil {
		return nil
	}
	vec := v.GetVector()
	if vec == nil {
		return nil
	}
	if dense := vec.GetDense(); dense != nil {
		return dense.GetData()
	}
	return vec.GetData()
}

// convertPayload converts Qdrant's protobuf payload to a generic map.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

// extractValue recursively converts a Qdrant Value to a Go native type.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}
