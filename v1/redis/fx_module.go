package redis

import (
	"context"
	"log"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/Aleph-Alpha/vecbridge/v1/vectordb"
	"go.uber.org/fx"
)

// FXModule is an fx.Module that provides the Redis client and the vector adapter.
// This module registers both with the Fx dependency injection framework,
// making them available to other components in the application.
//
// The module:
// 1. Provides the Redis client factory function
// 2. Provides the Adapter, also exposed as vectordb.Adapter
// 3. Invokes the lifecycle registration to manage the client's lifecycle
//
// Usage:
//
//	app := fx.New(
//	    embedding.FXModule,
//	    redis.FXModule,
//	    fx.Provide(func() redis.Config { return loadRedisConfig() }),
//	)
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
		newAdapterFx,
		func(a *Adapter) vectordb.Adapter { return a },
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// RedisParams groups the dependencies needed to create a Redis client
type RedisParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a new Redis client using dependency injection.
// The optional logger is injected into the config and the optional observer
// is attached before the client is returned.
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}

	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	return client.WithObserver(params.Observer), nil
}

// AdapterParams groups the Adapter's dependencies.
type AdapterParams struct {
	fx.In

	Client   *RedisClient
	Engine   vectordb.EmbeddingEngine
	Logger   vectordb.Logger        `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func newAdapterFx(p AdapterParams) *Adapter {
	return NewAdapter(p.Client, p.Engine, p.Logger).WithObserver(p.Observer)
}

// RedisLifecycleParams groups the dependencies needed for Redis lifecycle management
type RedisLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RedisClient
}

// RegisterRedisLifecycle registers the Redis client with the fx lifecycle system.
//
// The function:
//  1. On application start: Pings Redis to ensure the connection is healthy
//  2. On application stop: Closes the client's connections
func RegisterRedisLifecycle(params RedisLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Client.Ping(ctx); err != nil {
				log.Printf("WARN: Failed to ping Redis on startup: %v", err)
				return err
			}
			log.Println("INFO: Redis client started and healthy")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: Shutting down Redis client")
			return params.Client.Close()
		},
	})
}
