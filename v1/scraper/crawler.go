package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/Aleph-Alpha/vecbridge/v1/httpretry"
)

// Crawler discovers pages breadth-first under a URL prefix and scrapes each
// one it can fetch.
type Crawler struct {
	scraper Scraper
	fetch   *httpretry.Client
	cfg     CrawlConfig
	logger  Logger
}

type queued struct {
	url   string
	depth int
}

// NewCrawler creates a Crawler that scrapes with s.
func NewCrawler(s Scraper, cfg CrawlConfig, logger Logger) *Crawler {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	// Link discovery is best effort: one attempt, nothing retried.
	fetch := httpretry.NewClient(httpretry.Config{
		MaxRetries:    1,
		RetryStatuses: []int{},
		Timeout:       cfg.FetchTimeout,
	})
	return &Crawler{scraper: s, fetch: fetch, cfg: cfg, logger: orNop(logger)}
}

// HTTP returns the client used for HTML fetches.
func (c *Crawler) HTTP() *httpretry.Client {
	return c.fetch
}

// Crawl walks from startURL and returns the scraped pages in visit order.
// Pages that cannot be fetched or scraped are logged and skipped. A cancelled
// context stops the walk and returns what was collected so far with the
// context error.
func (c *Crawler) Crawl(ctx context.Context, startURL string) ([]Page, error) {
	prefix := c.cfg.DomainPrefix
	if prefix == "" {
		prefix = startURL
	}

	visited := make(map[string]bool)
	queue := []queued{{url: startURL}}
	var pages []Page

	c.logger.Info("Starting BFS crawl", nil, map[string]interface{}{
		"start_url": startURL,
		"prefix":    prefix,
		"max_depth": c.cfg.MaxDepth,
	})

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		current := queue[0]
		queue = queue[1:]
		if visited[current.url] {
			continue
		}
		visited[current.url] = true

		c.logger.Info("Crawling", nil, map[string]interface{}{"url": current.url, "depth": current.depth})

		body, err := c.fetchHTML(ctx, current.url)
		if err != nil {
			c.logger.Warn("Skipping page", err, map[string]interface{}{"url": current.url})
			continue
		}

		if current.depth < c.cfg.MaxDepth {
			for _, link := range extractLinks(current.url, body) {
				if strings.HasPrefix(link, prefix) && !visited[link] {
					queue = append(queue, queued{url: link, depth: current.depth + 1})
				}
			}
		}

		md, err := c.scraper.Scrape(ctx, current.url)
		if err != nil {
			c.logger.Error("Failed scrape", err, map[string]interface{}{"url": current.url})
			continue
		}
		pages = append(pages, Page{URL: current.url, Markdown: md})
		c.logger.Info("Collected markdown", nil, map[string]interface{}{"url": current.url})
	}

	c.logger.Info("Crawl finished", nil, map[string]interface{}{"pages": len(pages), "visited": len(visited)})
	return pages, nil
}

func (c *Crawler) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.fetch.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractLinks returns the absolute, fragment-free targets of every <a href>
// in doc, resolved against pageURL, in document order.
func extractLinks(pageURL, doc string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					if link, ok := resolveLink(base, string(val)); ok {
						links = append(links, link)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	abs.Fragment = ""
	abs.RawFragment = ""
	return abs.String(), true
}
