package httpretry

import (
	"net/http"
	"time"
)

const (
	DefaultMaxRetries = 5
	DefaultBackoff    = 35 * time.Second
	DefaultTimeout    = 60 * time.Second

	// maxErrorBody caps how much of a failed response is kept in StatusError
	maxErrorBody = 64 << 10
)

// DefaultRetryStatuses are request timeout, rate limit and bad gateway.
var DefaultRetryStatuses = []int{
	http.StatusRequestTimeout,
	http.StatusTooManyRequests,
	http.StatusBadGateway,
}

// Config controls the retry policy.
type Config struct {
	// MaxRetries is the total number of attempts, including the first one.
	MaxRetries int `yaml:"max_retries" env:"HTTP_MAX_RETRIES"`

	// Backoff is the fixed wait between attempts.
	Backoff time.Duration `yaml:"backoff" env:"HTTP_BACKOFF"`

	// RetryStatuses are the HTTP status codes that trigger a retry.
	RetryStatuses []int `yaml:"retry_statuses"`

	// Timeout bounds a single attempt.
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT"`
}

// DefaultConfig returns 5 attempts, 35s fixed backoff on 408/429/502 and a 60s attempt timeout.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    DefaultMaxRetries,
		Backoff:       DefaultBackoff,
		RetryStatuses: append([]int(nil), DefaultRetryStatuses...),
		Timeout:       DefaultTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	if c.RetryStatuses == nil {
		c.RetryStatuses = append([]int(nil), DefaultRetryStatuses...)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Logger is the subset of logger.Logger used by the client.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}
