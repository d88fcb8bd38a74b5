// Package httpretry provides an HTTP client that retries rate-limited and
// transiently failing requests with a fixed backoff.
//
// The policy mirrors what third-party APIs such as Firecrawl and Azure AI
// Search expect from well-behaved clients: a request answered with one of the
// retry statuses (408, 429 and 502 by default) is retried after a fixed wait,
// up to MaxRetries attempts in total. A Retry-After header overrides the wait.
// Any other non-2xx status fails immediately with a *StatusError.
//
// Basic usage:
//
//	client := httpretry.NewClient(httpretry.DefaultConfig()).WithLogger(log)
//
//	var out scrapeResponse
//	err := client.PostJSON(ctx, "https://api.firecrawl.dev/v1/scrape", headers, body, &out)
//	var statusErr *httpretry.StatusError
//	if errors.As(err, &statusErr) && statusErr.Exhausted {
//	    // gave up after MaxRetries attempts
//	}
//
// Every attempt runs inside an OpenTelemetry client span and propagates the
// W3C trace context in the outgoing headers.
package httpretry
