package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client is the set of Redis Stack operations the vector adapter is built on.
//
// This interface is implemented by the concrete *RedisClient type.
type Client interface {
	// Connection and lifecycle
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
	Client() redis.UniversalClient
	Close() error

	// Search index operations
	CreateIndex(ctx context.Context, index string, dims int) error
	IndexExists(ctx context.Context, index string) (bool, error)
	ListIndexes(ctx context.Context) ([]string, error)
	DropIndex(ctx context.Context, index string, deleteDocs bool) error
	KNNSearch(ctx context.Context, index string, vector []float32, k int, withVector bool) ([]redis.Document, error)

	// JSON document operations
	SetJSONDocuments(ctx context.Context, docs map[string]any) error
	GetJSONDocuments(ctx context.Context, keys []string) ([]string, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
}

var _ Client = (*RedisClient)(nil)
