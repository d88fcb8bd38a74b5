package qdrant

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultGRPCPort is the port the Go client talks to.
	DefaultGRPCPort = 6334

	// restPort is the REST port users usually copy from dashboards; it maps to DefaultGRPCPort.
	restPort = 6333
)

// Config holds connection and behavior settings for the Qdrant client.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "qdrant.internal"
//	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
//
// Example (from a URL):
//
//	cfg, err := qdrant.ConfigFromURL("https://xyz.cloud.qdrant.io:6333", apiKey)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Connect with TLS.
	UseTLS bool `yaml:"use_tls" env:"QDRANT_USE_TLS"`

	// Timeout bounds the startup health check.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               DefaultGRPCPort,
		Timeout:            5 * time.Second,
		CheckCompatibility: true,
	}
}

// FromEndpoint returns a default config pre-filled with a specific host.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

// ConfigFromURL builds a Config from a URL such as "http://localhost:6333".
// The REST port 6333 (or no port) maps to the gRPC port 6334, and an https
// scheme enables TLS.
func ConfigFromURL(rawURL, apiKey string) (*Config, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("[Qdrant] url cannot be empty")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "http://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] invalid url %q: %w", rawURL, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("[Qdrant] url %q has no host", rawURL)
	}

	cfg := FromEndpoint(u.Hostname())
	cfg.ApiKey = apiKey
	cfg.UseTLS = u.Scheme == "https" || u.Scheme == "grpcs"

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("[Qdrant] invalid port in %q: %w", rawURL, err)
		}
		if port != restPort {
			cfg.Port = port
		}
	}
	return cfg, nil
}

// Address returns host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Endpoint, strconv.Itoa(c.Port))
}

// Builder-style helpers (optional, ergonomic)
func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithTLS(enabled bool) *Config {
	c.UseTLS = enabled
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}
