package embedding

import (
	"fmt"
	"os"
	"strconv"
)

const (
	DefaultModel      = "text-embedding-3-large"
	DefaultDimensions = 3072
	DefaultBatchSize  = 96
	DefaultTimeoutS   = 30
)

// VECBRIDGE_EMBEDDING_ENDPOINT must point to the root of the OpenAI-compatible
// service (for example https://api.openai.com/v1). The client appends
// /embeddings itself.

type Config struct {
	// Inference endpoint and auth
	Endpoint     string `yaml:"endpoint" env:"VECBRIDGE_EMBEDDING_ENDPOINT"`
	ServiceToken string `yaml:"serviceToken" env:"VECBRIDGE_EMBEDDING_API_KEY"`

	// Model is sent with every request
	Model string `yaml:"model" env:"VECBRIDGE_EMBEDDING_MODEL"`

	// Dimensions is the vector size; it is also sent to models that can shorten output.
	Dimensions int `yaml:"dimensions" env:"VECBRIDGE_EMBEDDING_DIMENSIONS"`

	// BatchSize caps how many texts go into one request.
	BatchSize int `yaml:"batchSize" env:"VECBRIDGE_EMBEDDING_BATCH_SIZE"`

	HTTPTimeoutS int `yaml:"httpTimeoutSeconds" env:"VECBRIDGE_EMBEDDING_HTTP_TIMEOUT_SECONDS"` // default 30
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	return &Config{
		Endpoint:     os.Getenv("VECBRIDGE_EMBEDDING_ENDPOINT"),
		ServiceToken: os.Getenv("VECBRIDGE_EMBEDDING_API_KEY"),
		Model:        envOr("VECBRIDGE_EMBEDDING_MODEL", DefaultModel),
		Dimensions:   envInt("VECBRIDGE_EMBEDDING_DIMENSIONS", DefaultDimensions),
		BatchSize:    envInt("VECBRIDGE_EMBEDDING_BATCH_SIZE", DefaultBatchSize),
		HTTPTimeoutS: envInt("VECBRIDGE_EMBEDDING_HTTP_TIMEOUT_SECONDS", DefaultTimeoutS),
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing VECBRIDGE_EMBEDDING_ENDPOINT")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing model")
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("embedding: dimensions must be positive, got %d", c.Dimensions)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
