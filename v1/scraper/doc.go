// Package scraper collects documentation pages as markdown.
//
// Firecrawl converts a single URL to markdown through the Firecrawl scrape
// API, retrying on 408, 429 and 502 with a fixed 35s backoff. Crawler walks a
// documentation site breadth-first, following links under a prefix up to a
// depth limit, and scrapes every page it reaches. ScrapeURLs does the same for
// a fixed list of URLs with bounded parallelism.
//
// WriteCombined renders the result as one markdown file with a
// "----- <url> -----" header per page, the format the docclean package reads.
//
//	fc, err := scraper.NewFirecrawl(scraper.DefaultConfig(os.Getenv("VECBRIDGE_FIRECRAWL_API_KEY")))
//	if err != nil {
//		return err
//	}
//	c := scraper.NewCrawler(fc, scraper.CrawlConfig{
//		DomainPrefix: "https://dlthub.com/docs",
//		MaxDepth:     5,
//	}, log)
//	pages, err := c.Crawl(ctx, "https://dlthub.com/docs/")
//	if err != nil {
//		return err
//	}
//	return scraper.WriteCombined(out, pages)
package scraper
