// Package embedding computes text embeddings through an OpenAI-compatible
// /embeddings endpoint and implements vectordb.EmbeddingEngine.
//
// # Overview
//
//	client, err := embedding.NewClient(embedding.NewConfig())
//	vectors, err := client.EmbedText(ctx, []string{"hello"})
//
// Requests go through httpretry, so 408/429/502 responses are retried with a
// fixed backoff. Inputs larger than BatchSize are split into several requests
// and the results concatenated in order.
//
// # Configuration
//
// Configuration is read from the environment by NewConfig:
//
//   - VECBRIDGE_EMBEDDING_ENDPOINT (required): base URL, without /embeddings
//   - VECBRIDGE_EMBEDDING_API_KEY: bearer token
//   - VECBRIDGE_EMBEDDING_MODEL: default text-embedding-3-large
//   - VECBRIDGE_EMBEDDING_DIMENSIONS: default 3072
//   - VECBRIDGE_EMBEDDING_BATCH_SIZE: default 96
//   - VECBRIDGE_EMBEDDING_HTTP_TIMEOUT_SECONDS: default 30
//
// # Dependency Injection (Fx)
//
//	app := fx.New(
//	    embedding.FXModule,
//	    fx.Invoke(func(engine vectordb.EmbeddingEngine) { ... }),
//	)
package embedding
