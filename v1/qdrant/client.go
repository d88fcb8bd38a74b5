package qdrant

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
)

const defaultHealthTimeout = 3 * time.Second

// QdrantClient owns the gRPC connection to a Qdrant server. The Adapter in
// adapter.go builds the vector-store operations on top of it.
type QdrantClient struct {
	api     *qdrant.Client
	cfg     Config
	version string

	closeOnce sync.Once
	closeErr  error
}

// NewQdrantClient connects to Qdrant and pings it. The SDK dials lazily, so
// the ping is what surfaces a wrong host or API key at construction time.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg})
func NewQdrantClient(p QdrantParams) (*QdrantClient, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("[Qdrant] config is required")
	}
	cfg := *p.Config

	api, err := qdrant.NewClient(grpcConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}
	qc := &QdrantClient{api: api, cfg: cfg}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if qc.version, err = qc.Ping(ctx); err != nil {
		_ = api.Close()
		return nil, err
	}

	log.Printf("[Qdrant] connected to %s (tls=%t, version=%s)", cfg.Address(), cfg.UseTLS, qc.version)
	return qc, nil
}

// grpcConfig maps Config onto the SDK settings.
func grpcConfig(cfg Config) *qdrant.Config {
	port := cfg.Port
	if port == 0 {
		port = DefaultGRPCPort
	}
	return &qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	}
}

// Ping calls the HealthCheck RPC and returns the server version.
func (c *QdrantClient) Ping(ctx context.Context) (string, error) {
	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return "", fmt.Errorf("[Qdrant] health check failed: %w", err)
	}
	return resp.GetVersion(), nil
}

// ServerVersion is the version reported when the client connected.
func (c *QdrantClient) ServerVersion() string {
	return c.version
}

// Client returns the underlying SDK client.
func (c *QdrantClient) Client() *qdrant.Client {
	return c.api
}

// Close shuts down the gRPC connection. Later calls return the first result.
func (c *QdrantClient) Close() error {
	c.closeOnce.Do(func() {
		if c.api == nil {
			return
		}
		c.closeErr = c.api.Close()
		log.Println("[Qdrant] client closed")
	})
	return c.closeErr
}
