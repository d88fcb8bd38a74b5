package redis

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultHost            = "localhost"
	DefaultPort            = 6379
	DefaultMaxRetries      = 3
	DefaultMinRetryBackoff = 8 * time.Millisecond
	DefaultMaxRetryBackoff = 512 * time.Millisecond
	DefaultDialTimeout     = 5 * time.Second
	DefaultReadTimeout     = 3 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
)

// Config defines the connection settings for a standalone Redis Stack server.
// RediSearch and RedisJSON must be loaded.
type Config struct {
	// Host is the Redis server hostname or IP address
	// Default: "localhost"
	Host string `yaml:"host" env:"REDIS_HOST"`

	// Port is the Redis server port
	// Default: 6379
	Port int `yaml:"port" env:"REDIS_PORT"`

	// Username for Redis 6+ ACL authentication
	Username string `yaml:"username" env:"REDIS_USERNAME"`

	// Password for authentication
	Password string `yaml:"password" env:"REDIS_PASSWORD"`

	// DB is the database number to use
	// Default: 0
	DB int `yaml:"db" env:"REDIS_DB"`

	// PoolSize is the maximum number of socket connections
	// Default: 10 per CPU
	PoolSize int `yaml:"pool_size" env:"REDIS_POOL_SIZE"`

	// MinIdleConns is the minimum number of idle connections
	// Default: 0 (no minimum)
	MinIdleConns int `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS"`

	// PoolTimeout is the time to wait for a connection from the pool
	// Default: ReadTimeout + 1 second
	PoolTimeout time.Duration `yaml:"pool_timeout" env:"REDIS_POOL_TIMEOUT"`

	// IdleTimeout is how long idle connections are kept
	// Default: 5 minutes
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"REDIS_IDLE_TIMEOUT"`

	// MaxRetries is the maximum number of command retries
	// Default: 3
	MaxRetries int `yaml:"max_retries" env:"REDIS_MAX_RETRIES"`

	// MinRetryBackoff is the minimum backoff between retries
	// Default: 8 milliseconds
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff" env:"REDIS_MIN_RETRY_BACKOFF"`

	// MaxRetryBackoff is the maximum backoff between retries
	// Default: 512 milliseconds
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff" env:"REDIS_MAX_RETRY_BACKOFF"`

	// DialTimeout is the timeout for establishing connections
	// Default: 5 seconds
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT"`

	// ReadTimeout is the timeout for socket reads
	// Default: 3 seconds
	ReadTimeout time.Duration `yaml:"read_timeout" env:"REDIS_READ_TIMEOUT"`

	// WriteTimeout is the timeout for socket writes
	// Default: ReadTimeout
	WriteTimeout time.Duration `yaml:"write_timeout" env:"REDIS_WRITE_TIMEOUT"`

	// TLS configuration
	TLS TLSConfig `yaml:"tls"`

	// Logger is an optional logger, e.g. *logger.Logger
	Logger Logger `yaml:"-"`
}

// TLSConfig defines TLS settings for secure connections.
type TLSConfig struct {
	// Enabled turns on TLS
	Enabled bool `yaml:"enabled" env:"REDIS_TLS_ENABLED"`

	// CACertPath is the path to the CA certificate file
	CACertPath string `yaml:"ca_cert_path" env:"REDIS_TLS_CA_CERT"`

	// ClientCertPath is the path to the client certificate file
	ClientCertPath string `yaml:"client_cert_path" env:"REDIS_TLS_CLIENT_CERT"`

	// ClientKeyPath is the path to the client key file
	ClientKeyPath string `yaml:"client_key_path" env:"REDIS_TLS_CLIENT_KEY"`

	// InsecureSkipVerify disables certificate verification
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" env:"REDIS_TLS_INSECURE_SKIP_VERIFY"`

	// ServerName overrides the server name used for verification
	ServerName string `yaml:"server_name" env:"REDIS_TLS_SERVER_NAME"`
}

// Logger is the logging interface the client and adapter accept.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
}

// ConfigFromURL parses redis://[user:password@]host[:port][/db]; the rediss
// scheme enables TLS.
func ConfigFromURL(rawURL string) (Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Config{}, fmt.Errorf("invalid redis url: %w", err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return Config{}, fmt.Errorf("invalid redis url scheme %q", u.Scheme)
	}

	cfg := Config{Host: u.Hostname(), TLS: TLSConfig{Enabled: u.Scheme == "rediss"}}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if p := u.Port(); p != "" {
		if cfg.Port, err = strconv.Atoi(p); err != nil {
			return Config{}, fmt.Errorf("invalid redis port %q: %w", p, err)
		}
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if db := u.Path; len(db) > 1 {
		if cfg.DB, err = strconv.Atoi(db[1:]); err != nil {
			return Config{}, fmt.Errorf("invalid redis db %q: %w", db[1:], err)
		}
	}
	return cfg, nil
}

// withDefaults fills unset connection settings.
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.MinRetryBackoff == 0 {
		c.MinRetryBackoff = DefaultMinRetryBackoff
	}
	if c.MaxRetryBackoff == 0 {
		c.MaxRetryBackoff = DefaultMaxRetryBackoff
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	return c
}

// Addr is host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
