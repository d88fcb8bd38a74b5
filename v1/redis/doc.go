// Package redis provides a vector store on Redis Stack (RediSearch and RedisJSON).
//
// The package has two layers. RedisClient wraps go-redis and exposes the
// handful of search and JSON commands the store needs, reporting each one to
// an optional observer. Adapter implements vectordb.Adapter on top of the
// Client interface.
//
// # Data Model
//
// Every collection is a search index created with
//
//	FT.CREATE <name> ON JSON PREFIX 1 <name>: SCHEMA
//	    $.id AS id TAG SORTABLE
//	    $.text AS text TEXT SORTABLE
//	    $.vector AS vector VECTOR HNSW 8 TYPE FLOAT32 DIM <dims> DISTANCE_METRIC COSINE M 32
//	    $.payload AS payload TEXT SORTABLE
//
// and every point is a JSON document at "<name>:<id>". The payload is stored
// as a JSON string. Documents written by older tools may hold a literal
// representation instead; both are decoded by vectordb.DecodePayload.
//
// Searches run
//
//	FT.SEARCH <name> "*=>[KNN $K @vector $BLOB AS vector_distance]" ... DIALECT 2
//
// with the query vector packed as little-endian float32. The cosine distance
// lies in [0, 2] and is halved into ScoredResult.Score unless RawScore is set.
//
// # Direct Usage (Without FX)
//
//	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redis.NewAdapter(client, engine, logger)
//	if err := store.CreateCollection(ctx, "docs"); err != nil {
//		return err
//	}
//
// # FX Module Integration
//
//	app := fx.New(
//		embedding.FXModule,
//		redis.FXModule,
//		fx.Provide(func() redis.Config { return cfg }),
//		fx.Invoke(func(store vectordb.Adapter) { ... }),
//	)
//
// # Registry
//
// Importing the package registers the "redis" provider:
//
//	store, err := vectordb.New("redis", vectordb.ProviderConfig{URL: "redis://localhost:6379"}, engine, logger)
//
// # Thread Safety
//
// RedisClient and Adapter are safe for concurrent use.
package redis
