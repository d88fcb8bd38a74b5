// Package qdrant implements vectordb.Adapter for the Qdrant vector database.
//
// The package wraps the official Qdrant Go client (gRPC) and maps the vector
// store contract onto it: collections with a single cosine vector sized by
// the embedding engine, batched blocking upserts, point lookups, similarity
// queries and collection pruning. It integrates with fx and registers itself
// in the vectordb provider registry under "qdrant".
//
// # Core Features
//
//   - Managed Qdrant client lifecycle with Fx integration
//   - Config struct supporting environment and YAML loading, or a plain URL
//   - Automatic health check on client initialization
//   - Batched upserts of 200 points with Wait=true
//   - Scores reported as distances (1 - cosine similarity)
//
// # Basic Usage
//
//	import (
//	    "github.com/Aleph-Alpha/vecbridge/v1/qdrant"
//	    "github.com/Aleph-Alpha/vecbridge/v1/vectordb"
//	)
//
//	cfg, err := qdrant.ConfigFromURL("http://localhost:6333", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	var db vectordb.Adapter = qdrant.NewAdapter(client, engine, logger)
//
//	_ = db.CreateCollection(ctx, "documents")
//	_ = db.CreateDataPoints(ctx, "documents", []vectordb.DataPoint{
//	    {ID: uuid.NewString(), Payload: map[string]any{"text": "hello world"}},
//	})
//
//	results, err := db.Search(ctx, vectordb.NewSearchQuery("documents", "greeting"))
//
// Or through the registry:
//
//	db, err := vectordb.New("qdrant", vectordb.ProviderConfig{URL: "http://localhost:6333"}, engine, logger)
//
// # URLs and Ports
//
// Qdrant serves REST on 6333 and gRPC on 6334. ConfigFromURL accepts the REST
// URL most dashboards show and connects to 6334 instead; https enables TLS.
//
// # Point IDs
//
// Qdrant only accepts UUIDs and unsigned integers as point ids. Other ids are
// rejected with vectordb.ErrInvalidValue before anything is sent.
//
// # Fx Integration
//
//	app := fx.New(
//	    embedding.FXModule,
//	    qdrant.FXModule,
//	    fx.Provide(func() *qdrant.Config { return qdrant.FromEndpoint("localhost") }),
//	    fx.Invoke(func(db vectordb.Adapter) { ... }),
//	)
//
// # Thread Safety
//
// The client and Adapter are safe for concurrent use; BatchSearch runs up to
// ten queries in parallel.
package qdrant
