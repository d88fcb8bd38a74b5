package httpretry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Aleph-Alpha/vecbridge/v1/observability"
	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Aleph-Alpha/vecbridge/v1/httpretry"

// RequestFunc builds a fresh request for every attempt, so bodies can be re-read.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Client is an HTTP client with a fixed-backoff retry policy.
// It is safe for concurrent use.
type Client struct {
	http     *http.Client
	cfg      Config
	logger   Logger
	observer observability.Observer
	tracer   trace.Tracer
}

// NewClient creates a Client. Zero fields in cfg fall back to DefaultConfig values.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
	}
}

// WithLogger sets the logger used for retry warnings.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

// WithObserver sets the observer notified after every attempt.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// WithHTTPClient replaces the underlying transport client. The configured
// attempt timeout is applied when hc has none.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc.Timeout == 0 {
		hc.Timeout = c.cfg.Timeout
	}
	c.http = hc
	return c
}

// WithTracerProvider sets the provider used for per-attempt spans.
func (c *Client) WithTracerProvider(tp trace.TracerProvider) *Client {
	c.tracer = tp.Tracer(instrumentationName)
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Do executes the request built by build, retrying per the configured policy.
// On success the caller owns the response body.
func (c *Client) Do(ctx context.Context, build RequestFunc) (*http.Response, error) {
	attempt := 0

	operation := func() (*http.Response, error) {
		attempt++

		req, err := build(ctx)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.send(req, attempt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			if attempt >= c.cfg.MaxRetries {
				return nil, backoff.Permanent(fmt.Errorf("%s %s: exceeded max retries (%d): %w",
					req.Method, req.URL.Redacted(), attempt, err))
			}
			c.warn("request failed, retrying", err, req, attempt, 0)
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		statusErr := &StatusError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       drain(resp),
			Attempts:   attempt,
		}

		if !slices.Contains(c.cfg.RetryStatuses, resp.StatusCode) {
			return nil, backoff.Permanent(statusErr)
		}
		if attempt >= c.cfg.MaxRetries {
			statusErr.Exhausted = true
			return nil, backoff.Permanent(statusErr)
		}

		c.warn(fmt.Sprintf("%d %s, retrying", resp.StatusCode, http.StatusText(resp.StatusCode)),
			nil, req, attempt, resp.StatusCode)

		if wait := retryAfter(resp.Header); wait > 0 {
			return nil, backoff.RetryAfter(int(wait / time.Second))
		}
		return nil, statusErr
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.cfg.Backoff)),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries)), // #nosec G115 -- withDefaults guarantees a positive value
		backoff.WithMaxElapsedTime(0),
	)
}

// send performs one traced attempt.
func (c *Client) send(req *http.Request, attempt int) (*http.Response, error) {
	ctx, span := c.tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
			attribute.String("url.path", req.URL.Path),
			attribute.Int("http.request.resend_count", attempt-1),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(status))
	}

	c.observe(req, attempt, status, time.Since(start), err)
	return resp, err
}

func (c *Client) observe(req *http.Request, attempt, status int, d time.Duration, err error) {
	if c.observer == nil {
		return
	}
	if err == nil && status >= 400 {
		err = fmt.Errorf("status %d", status)
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "httpretry",
		Operation:   req.Method,
		Resource:    req.URL.Host,
		SubResource: req.URL.Path,
		Duration:    d,
		Error:       err,
		Metadata: map[string]interface{}{
			"attempt":     attempt,
			"status_code": status,
		},
	})
}

func (c *Client) warn(msg string, err error, req *http.Request, attempt, status int) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, err, map[string]interface{}{
		"method":      req.Method,
		"url":         req.URL.Redacted(),
		"status_code": status,
		"attempt":     attempt,
		"max_retries": c.cfg.MaxRetries,
		"backoff":     c.cfg.Backoff.String(),
	})
}

// DoJSON sends body (if non-nil) as JSON and decodes a JSON response into out (if non-nil).
func (c *Client) DoJSON(ctx context.Context, method, url string, header http.Header, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	return c.DoJSON(ctx, http.MethodGet, url, header, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, body, out any) error {
	return c.DoJSON(ctx, http.MethodPost, url, header, body, out)
}

// PutJSON issues a PUT with a JSON body and decodes the JSON response into out.
func (c *Client) PutJSON(ctx context.Context, url string, header http.Header, body, out any) error {
	return c.DoJSON(ctx, http.MethodPut, url, header, body, out)
}

// Delete issues a DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, url string, header http.Header) error {
	return c.DoJSON(ctx, http.MethodDelete, url, header, nil, nil)
}

func drain(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_, _ = io.Copy(io.Discard, resp.Body)
	return string(b)
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
