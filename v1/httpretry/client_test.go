package httpretry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (r *recordingObserver) ObserveOperation(op observability.OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		Backoff:    time.Millisecond,
		Timeout:    5 * time.Second,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 35*time.Second, cfg.Backoff)
	assert.Equal(t, []int{408, 429, 502}, cfg.RetryStatuses)
}

func TestRetriesOnRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"markdown": "# hi"}})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewClient(fastConfig(5)).WithObserver(obs)

	var out struct {
		Data struct {
			Markdown string `json:"markdown"`
		} `json:"data"`
	}
	err := client.PostJSON(context.Background(), srv.URL, nil, map[string]any{"url": "x"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "# hi", out.Data.Markdown)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, obs.count())
}

func TestNonRetryableStatusFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad url"))
	}))
	defer srv.Close()

	err := NewClient(fastConfig(5)).GetJSON(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "bad url", statusErr.Body)
	assert.False(t, statusErr.Exhausted)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryStatusExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	err := NewClient(fastConfig(3)).GetJSON(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.True(t, statusErr.Exhausted)
	assert.Equal(t, 3, statusErr.Attempts)
	assert.Contains(t, err.Error(), "exceeded max retries")
	assert.Contains(t, err.Error(), "upstream down")
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequestTimeoutIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClient(fastConfig(2)).Delete(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCustomRetryStatuses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := fastConfig(4)
	cfg.RetryStatuses = []int{http.StatusServiceUnavailable}

	err := NewClient(cfg).GetJSON(context.Background(), srv.URL, nil, nil)
	assert.True(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransportErrorsAreRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	err := NewClient(fastConfig(2)).WithObserver(obs).GetJSON(context.Background(), url, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded max retries (2)")
	assert.Equal(t, 2, obs.count())
}

func TestContextCancellationStopsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := fastConfig(5)
	cfg.Backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := NewClient(cfg).GetJSON(ctx, srv.URL, nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHeadersAndBodyAreResentOnEveryAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com", body["url"])

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer token")

	err := NewClient(fastConfig(3)).PostJSON(context.Background(), srv.URL, header,
		map[string]any{"url": "https://example.com"}, &map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, time.Duration(0), retryAfter(h))

	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(h))

	h.Set("Retry-After", "0")
	assert.Equal(t, time.Duration(0), retryAfter(h))

	h.Set("Retry-After", "soon")
	assert.Equal(t, time.Duration(0), retryAfter(h))

	h.Set("Retry-After", time.Now().Add(30*time.Second).UTC().Format(http.TimeFormat))
	d := retryAfter(h)
	assert.Greater(t, d, 20*time.Second)
	assert.LessOrEqual(t, d, 31*time.Second)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&StatusError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&StatusError{StatusCode: http.StatusConflict}))
	assert.False(t, IsNotFound(errors.New("plain")))
}
