// Package azuresearch provides a vector store on Azure AI Search.
//
// SearchClient is a thin client for the REST data plane
// (api-version 2024-07-01) built on httpretry, so throttled requests are
// retried. Adapter implements vectordb.Adapter on top of it.
//
// # Indexes
//
// Collection names are mapped onto valid index names with SanitizeIndexName.
// Every index has the fields
//
//	id       Edm.String, key, filterable
//	text     Edm.String, searchable
//	vector   Collection(Edm.Single), HNSW profile "vector-profile"
//	payload  Edm.String, the JSON-encoded point properties
//
// and an HNSW configuration of m=4, efConstruction=400, efSearch=500, cosine.
//
// # Searching
//
// With QueryText the adapter issues a hybrid query (full text plus vector);
// with only a vector it searches "*". Scores are 1 - @search.score unless
// RawScore is requested.
//
// # Usage
//
//	client, err := azuresearch.NewSearchClient(azuresearch.DefaultConfig(endpoint, key))
//	if err != nil {
//		return err
//	}
//	store := azuresearch.NewAdapter(client, engine, logger)
//
// or, through the registry:
//
//	store, err := vectordb.New("azureaisearch", vectordb.ProviderConfig{Endpoint: endpoint, APIKey: key}, engine, logger)
package azuresearch
