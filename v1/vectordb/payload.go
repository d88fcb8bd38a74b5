package vectordb

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EncodePayload serializes a payload for backends that store it as a string.
// Values are normalized first so UUIDs and timestamps survive as strings.
func EncodePayload(payload map[string]any) (string, error) {
	b, err := json.Marshal(NormalizePayload(payload))
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(b), nil
}

// DecodePayload reads a stored payload string. It tries JSON first, then the
// legacy literal form. Anything unreadable decodes to an empty map and ok=false.
func DecodePayload(s string) (payload map[string]any, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return map[string]any{}, false
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err == nil && m != nil {
		return m, true
	}

	if v, err := parseLiteral(s); err == nil {
		if m, isMap := v.(map[string]any); isMap {
			return m, true
		}
	}

	return map[string]any{}, false
}

// NormalizePayload returns a deep copy of payload where every value is
// representable in JSON and in Qdrant's value model: UUIDs and times become
// strings, typed slices and maps become []any and map[string]any, non-finite
// floats become nil.
func NormalizePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil, bool, string, int, int32, int64, uint, uint32, uint64:
		return val
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return normalizeFloat(f)
	case float32:
		return normalizeFloat(float64(val))
	case float64:
		return normalizeFloat(val)
	case uuid.UUID:
		return val.String()
	case *uuid.UUID:
		if val == nil {
			return nil
		}
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	case map[string]any:
		return NormalizePayload(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeValue(e)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = e
		}
		return out
	case []float32:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeFloat(float64(e))
		}
		return out
	case []float64:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeFloat(e)
		}
		return out
	case []int:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = e
		}
		return out
	default:
		// Round-trip anything else (structs, typed maps) through JSON.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		var decoded any
		if err := json.Unmarshal(b, &decoded); err != nil {
			return fmt.Sprint(val)
		}
		return decoded
	}
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
