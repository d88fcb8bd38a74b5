package redis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// hnswM is the number of edges per HNSW node.
	hnswM = 32

	// DistanceField is the alias KNN queries yield the cosine distance under.
	DistanceField = "vector_distance"
)

// ── Connection ──

// Ping checks if the Redis server is reachable and responsive.
func (r *RedisClient) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.Client().Ping(ctx).Err()
	r.observeOperation("ping", "", "", time.Since(start), err, 0, nil)
	return err
}

// PoolStats returns connection pool statistics.
func (r *RedisClient) PoolStats() *redis.PoolStats {
	return r.Client().PoolStats()
}

// ── Search indexes ──

// IndexSchema returns the RediSearch schema of a collection index: the point
// id as TAG, text and payload as TEXT, and an HNSW cosine vector field.
func IndexSchema(dims int) []*redis.FieldSchema {
	return []*redis.FieldSchema{
		{FieldName: "$.id", As: "id", FieldType: redis.SearchFieldTypeTag, Sortable: true},
		{FieldName: "$.text", As: "text", FieldType: redis.SearchFieldTypeText, Sortable: true},
		{
			FieldName: "$.vector",
			As:        "vector",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				HNSWOptions: &redis.FTHNSWOptions{
					Type:            "FLOAT32",
					Dim:             dims,
					DistanceMetric:  "COSINE",
					MaxEdgesPerNode: hnswM,
				},
			},
		},
		{FieldName: "$.payload", As: "payload", FieldType: redis.SearchFieldTypeText, Sortable: true},
	}
}

// KeyPrefix is the prefix of every document key indexed by index.
func KeyPrefix(index string) string {
	return index + ":"
}

// DocumentKey is the key of a point's JSON document.
func DocumentKey(index, id string) string {
	return KeyPrefix(index) + id
}

// CreateIndex creates a JSON index over the keys prefixed with "<index>:".
func (r *RedisClient) CreateIndex(ctx context.Context, index string, dims int) error {
	start := time.Now()
	err := r.Client().FTCreate(ctx, index, &redis.FTCreateOptions{
		OnJSON: true,
		Prefix: []interface{}{KeyPrefix(index)},
	}, IndexSchema(dims)...).Err()
	r.observeOperation("ft_create", index, "", time.Since(start), err, 0, map[string]interface{}{"dims": dims})
	return err
}

// ListIndexes returns all search indexes via FT._LIST.
func (r *RedisClient) ListIndexes(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := r.Client().FT_List(ctx).Result()
	r.observeOperation("ft_list", "", "", time.Since(start), err, int64(len(names)), nil)
	return names, err
}

// IndexExists reports whether index is among FT._LIST.
func (r *RedisClient) IndexExists(ctx context.Context, index string) (bool, error) {
	names, err := r.ListIndexes(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, index), nil
}

// DropIndex removes an index, and its documents when deleteDocs is set.
// Dropping a missing index is not an error.
func (r *RedisClient) DropIndex(ctx context.Context, index string, deleteDocs bool) error {
	start := time.Now()
	err := r.Client().FTDropIndexWithArgs(ctx, index, &redis.FTDropIndexOptions{DeleteDocs: deleteDocs}).Err()
	if IsUnknownIndexError(err) {
		err = nil
	}
	r.observeOperation("ft_dropindex", index, "", time.Since(start), err, 0, map[string]interface{}{"delete_docs": deleteDocs})
	return err
}

// KNNSearch returns the k nearest documents to vector, closest first.
// Every document carries id, text, payload and vector_distance fields; the
// stored vector is returned as a JSON array under "vector" when withVector is set.
func (r *RedisClient) KNNSearch(ctx context.Context, index string, vector []float32, k int, withVector bool) ([]redis.Document, error) {
	start := time.Now()

	fields := []redis.FTSearchReturn{
		{FieldName: "id"},
		{FieldName: "text"},
		{FieldName: "payload"},
		{FieldName: DistanceField},
	}
	if withVector {
		fields = append(fields, redis.FTSearchReturn{FieldName: "$.vector", As: "vector"})
	}

	query := fmt.Sprintf("*=>[KNN $K @vector $BLOB AS %s]", DistanceField)
	res, err := r.Client().FTSearchWithArgs(ctx, index, query, &redis.FTSearchOptions{
		Return:         fields,
		SortBy:         []redis.FTSearchSortBy{{FieldName: DistanceField, Asc: true}},
		Limit:          k,
		Params:         map[string]interface{}{"K": k, "BLOB": EncodeVector(vector)},
		DialectVersion: 2,
	}).Result()
	r.observeOperation("ft_search", index, "", time.Since(start), err, int64(len(res.Docs)), map[string]interface{}{"k": k})
	if err != nil {
		return nil, err
	}
	return res.Docs, nil
}

// ── JSON documents ──

// SetJSONDocuments writes every document with JSON.SET key $ in one pipeline.
func (r *RedisClient) SetJSONDocuments(ctx context.Context, docs map[string]any) error {
	if len(docs) == 0 {
		return nil
	}
	start := time.Now()

	pipe := r.Client().Pipeline()
	for key, doc := range docs {
		pipe.JSONSet(ctx, key, "$", doc)
	}
	cmds, err := pipe.Exec(ctx)
	if err == nil {
		for _, cmd := range cmds {
			if cmd.Err() != nil {
				err = cmd.Err()
				break
			}
		}
	}

	r.observeOperation("json_set", "", "", time.Since(start), err, int64(len(docs)), nil)
	return err
}

// GetJSONDocuments fetches the root of every key with JSON.GET. The result is
// aligned with keys; missing keys yield an empty string.
func (r *RedisClient) GetJSONDocuments(ctx context.Context, keys []string) ([]string, error) {
	out := make([]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	start := time.Now()

	pipe := r.Client().Pipeline()
	cmds := make([]*redis.JSONCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.JSONGet(ctx, key)
	}
	_, err := pipe.Exec(ctx)
	if IsNilError(err) {
		err = nil
	}

	found := 0
	if err == nil {
		for i, cmd := range cmds {
			val, cerr := cmd.Result()
			if IsNilError(cerr) {
				continue
			}
			if cerr != nil {
				err = cerr
				break
			}
			out[i] = val
			if val != "" {
				found++
			}
		}
	}

	r.observeOperation("json_get", "", "", time.Since(start), err, int64(found), map[string]interface{}{"keys": len(keys)})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes keys and returns how many existed.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	start := time.Now()
	n, err := r.Client().Del(ctx, keys...).Result()
	r.observeOperation("del", "", "", time.Since(start), err, n, map[string]interface{}{"keys": len(keys)})
	return n, err
}
