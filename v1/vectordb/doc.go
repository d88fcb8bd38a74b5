// Package vectordb defines the vector-database contract implemented by the
// qdrant, redis and azuresearch adapters.
//
// # Overview
//
// A knowledge-graph pipeline talks to its vector store through a fixed set of
// operations: create collections, write embedded data points, search by text
// or vector, retrieve and delete by id, and prune everything. [Adapter] is that
// contract; each adapter package translates it into vendor calls.
//
//	┌────────────────────────────────────────────────────────────┐
//	│               Application / ingestion pipeline             │
//	│           (depends on vectordb.Adapter only)               │
//	└──────────────────────────┬─────────────────────────────────┘
//	                           │
//	        ┌──────────────────┼──────────────────┐
//	        ▼                  ▼                  ▼
//	┌───────────────┐  ┌───────────────┐  ┌────────────────────┐
//	│ qdrant.Adapter│  │ redis.Adapter │  │azuresearch.Adapter │
//	└───────────────┘  └───────────────┘  └────────────────────┘
//
// Adapters embed text themselves through an [EmbeddingEngine], so callers hand
// over data points and query strings rather than vectors.
//
// # Choosing an adapter at runtime
//
// Adapter packages register a [Factory] under a provider name in init():
//
//	import (
//	    "github.com/Aleph-Alpha/vecbridge/v1/vectordb"
//	    _ "github.com/Aleph-Alpha/vecbridge/v1/qdrant"
//	)
//
//	adapter, err := vectordb.New("qdrant", vectordb.ProviderConfig{
//	    URL:    "http://localhost:6333",
//	    APIKey: os.Getenv("QDRANT_API_KEY"),
//	}, engine, log)
//
// # Scores
//
// Unless SearchQuery.RawScore is set, ScoredResult.Score is a distance:
// 0 means identical and lower is closer, whatever the backend reports natively.
//
// # Payloads
//
// Backends without a native document model store the payload as a JSON
// string. [DecodePayload] reads it back and also accepts the legacy
// Python-literal form written by older ingestion scripts
// ({'key': 'value', 'flag': True}).
//
// # Package Layout
//
//	vectordb/
//	├── interface.go      # Adapter, EmbeddingEngine, Logger
//	├── types.go          # DataPoint, ScoredResult, SearchQuery
//	├── errors.go         # ErrCollectionNotFound, ErrInvalidValue, ErrInitialization
//	├── payload.go        # JSON payload codec with legacy fallback
//	├── literal.go        # legacy literal parser
//	├── search.go         # shared query validation and embedding
//	├── batch.go          # parallel fan-out for BatchSearch
//	├── registry.go       # provider registry
//	└── mock_engine.go    # generated EmbeddingEngine mock
package vectordb
