package vecbridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vecbridge/v1/scraper"
)

func addFirecrawlFlags(cmd *cobra.Command) {
	cmd.Flags().String("firecrawl-api-key", "", "Firecrawl API key (env VECBRIDGE_FIRECRAWL_API_KEY)")
	cmd.Flags().String("firecrawl-endpoint", scraper.DefaultFirecrawlEndpoint, "Firecrawl scrape endpoint")
	cmd.Flags().StringP("output", "o", "", "Output markdown file (default stdout)")
}

func (o *options) newFirecrawl(rt *runtime) (*scraper.Firecrawl, error) {
	cfg := scraper.DefaultConfig(o.v.GetString("firecrawl-api-key"))
	cfg.Endpoint = o.v.GetString("firecrawl-endpoint")

	fc, err := scraper.NewFirecrawl(cfg)
	if err != nil {
		return nil, err
	}
	fc.HTTP().WithLogger(rt.log).WithObserver(rt.observer).WithTracerProvider(rt.tracer.Provider())
	return fc, nil
}

func newCrawlCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a documentation site breadth-first and scrape every page to markdown",
		Example: `  vecbridge crawl --start-url https://dlthub.com/docs/ --domain-prefix https://dlthub.com/docs \
    --max-depth 5 -o docs_dlt.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := o.v.GetString("start-url")
			if start == "" {
				return fmt.Errorf("--start-url is required")
			}

			rt, err := o.newRuntime()
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			fc, err := o.newFirecrawl(rt)
			if err != nil {
				return err
			}

			crawler := scraper.NewCrawler(fc, scraper.CrawlConfig{
				DomainPrefix: o.v.GetString("domain-prefix"),
				MaxDepth:     o.v.GetInt("max-depth"),
			}, rt.log)
			crawler.HTTP().WithObserver(rt.observer).WithTracerProvider(rt.tracer.Provider())

			ctx, span := rt.tracer.StartSpan(cmd.Context(), "crawl")
			defer span.End()

			pages, err := crawler.Crawl(ctx, start)
			if err != nil {
				rt.tracer.RecordErrorOnSpan(span, err)
				return err
			}
			rt.tracer.SetAttributes(span, map[string]interface{}{"start_url": start, "pages": len(pages)})

			return writePages(cmd, o.v.GetString("output"), pages)
		},
	}

	addFirecrawlFlags(cmd)
	cmd.Flags().String("start-url", "", "URL the crawl starts from")
	cmd.Flags().String("domain-prefix", "", "Only follow links starting with this prefix (default: the start URL)")
	cmd.Flags().Int("max-depth", scraper.DefaultMaxDepth, "Maximum number of link hops from the start URL")
	return cmd
}

func newScrapeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Scrape a fixed list of URLs to one markdown file",
		Example: `  vecbridge scrape --url https://example.com/a --url https://example.com/b -o extra_docs.md
  vecbridge scrape --urls-file urls.txt -o extra_docs.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append(o.v.GetStringSlice("url"), args...)
			if path := o.v.GetString("urls-file"); path != "" {
				fromFile, err := readURLList(path)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs given: use --url, --urls-file or arguments")
			}

			rt, err := o.newRuntime()
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			fc, err := o.newFirecrawl(rt)
			if err != nil {
				return err
			}

			ctx, span := rt.tracer.StartSpan(cmd.Context(), "scrape")
			defer span.End()

			pages, err := scraper.ScrapeURLs(ctx, fc, urls, o.v.GetInt("concurrency"), rt.log)
			if err != nil {
				rt.tracer.RecordErrorOnSpan(span, err)
				return err
			}
			rt.tracer.SetAttributes(span, map[string]interface{}{"requested": len(urls), "pages": len(pages)})

			return writePages(cmd, o.v.GetString("output"), pages)
		},
	}

	addFirecrawlFlags(cmd)
	cmd.Flags().StringSlice("url", nil, "URL to scrape (repeatable)")
	cmd.Flags().String("urls-file", "", "File with one URL per line; blank lines and # comments are ignored")
	cmd.Flags().Int("concurrency", scraper.DefaultConcurrency, "Parallel Firecrawl requests")
	return cmd
}

// readURLList reads one URL per line.
func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

func writePages(cmd *cobra.Command, path string, pages []scraper.Page) error {
	return withOutput(cmd, path, func(w io.Writer) error {
		return scraper.WriteCombined(w, pages)
	})
}

// withOutput calls write with the file at path, or the command's stdout when path is empty.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
