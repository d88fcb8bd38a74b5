package redis

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/redis/go-redis/v9"
)

// RedisClient talks to a Redis Stack server. It issues the RediSearch and
// RedisJSON commands the vector adapter needs and reports each one to the
// observer.
//
// RedisClient implements the Client interface.
type RedisClient struct {
	client   redis.UniversalClient
	cfg      Config
	logger   Logger
	observer observability.Observer

	// mu guards client against Close racing with Client
	mu        sync.RWMutex
	closeOnce sync.Once
	closeErr  error
}

// NewClient creates a Redis client. Zero fields in cfg take the package
// defaults. No connection is made until the first command; call Ping to
// verify connectivity.
//
// Example:
//
//	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return nil, err
//	}
//	defer client.Close()
func NewClient(cfg Config) (*RedisClient, error) {
	cfg = cfg.withDefaults()

	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("INFO: Redis client initialized for %s", cfg.Addr())
	return &RedisClient{
		client: redis.NewClient(opts),
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

// clientOptions maps cfg onto go-redis options. FT.SEARCH replies are only
// parsed in RESP2, hence the pinned protocol.
func clientOptions(cfg Config) (*redis.Options, error) {
	opts := &redis.Options{
		Addr:            cfg.Addr(),
		Protocol:        2,
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
	}
	if cfg.TLS.Enabled {
		tlsConfig, err := newTLSConfig(cfg.TLS, cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("[Redis] failed to create TLS config: %w", err)
		}
		opts.TLSConfig = tlsConfig
	}
	return opts, nil
}

// newTLSConfig builds the client TLS settings. The server name defaults to host.
func newTLSConfig(cfg TLSConfig, host string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, // #nosec G402 -- opt-in for self-signed dev servers
		ServerName:         host,
	}
	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	}

	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Client returns the underlying go-redis client.
func (r *RedisClient) Client() redis.UniversalClient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Close releases the connection pool. Calling it again returns the first result.
func (r *RedisClient) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.client == nil {
			return
		}
		if err := r.client.Close(); err != nil {
			log.Printf("WARN: Failed to close Redis client: %v", err)
			r.closeErr = err
			return
		}
		log.Println("INFO: Redis client closed")
	})
	return r.closeErr
}

// WithObserver sets the observer notified after every command.
//
//	client := client.WithObserver(metrics).WithLogger(log)
func (r *RedisClient) WithObserver(observer observability.Observer) *RedisClient {
	r.observer = observer
	return r
}

// WithLogger sets the logger for this client.
func (r *RedisClient) WithLogger(logger Logger) *RedisClient {
	r.logger = logger
	return r
}
