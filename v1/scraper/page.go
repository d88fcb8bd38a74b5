package scraper

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Page is one scraped document.
type Page struct {
	URL      string
	Markdown string
}

// WriteCombined writes pages in order, each as
//
//	----- <url> -----
//
//	<markdown>
//
// followed by a blank line.
func WriteCombined(w io.Writer, pages []Page) error {
	bw := bufio.NewWriter(w)
	for _, p := range pages {
		if _, err := fmt.Fprintf(bw, "----- %s -----\n\n%s\n\n", p.URL, p.Markdown); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ScrapeURLs scrapes urls with at most concurrency requests in flight.
// Pages come back in input order; URLs that fail are logged and left out.
// Only a cancelled context aborts the run.
func ScrapeURLs(ctx context.Context, s Scraper, urls []string, concurrency int, logger Logger) ([]Page, error) {
	logger = orNop(logger)
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	logger.Info("Starting to scrape URLs", nil, map[string]interface{}{"count": len(urls)})

	results := make([]*Page, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			md, err := s.Scrape(gctx, u)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Error("Failed to scrape URL", err, map[string]interface{}{"url": u})
				return nil
			}
			results[i] = &Page{URL: u, Markdown: md}
			logger.Info("Collected markdown", nil, map[string]interface{}{"url": u})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(urls))
	for _, p := range results {
		if p != nil {
			pages = append(pages, *p)
		}
	}
	return pages, nil
}
