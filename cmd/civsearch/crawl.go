package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civsearch/civsearch/crawl"
	"github.com/civsearch/civsearch/rod"
	"github.com/civsearch/civsearch/trafilatura"
)

// CrawlCmd crawls a website and indexes its pages and linked documents.
type CrawlCmd struct {
	URL         string        `arg:"" required:"" help:"Start URL of the website to index."`
	Index       string        `default:"site_documents" help:"Name of the search index to build."`
	Depth       int           `default:"2" help:"Maximum link depth to follow."`
	Concurrency int           `default:"5" help:"Concurrent page fetches."`
	RPS         float64       `name:"rps" default:"1" help:"Requests per second per domain."`
	DownloadDir string        `default:"downloads" help:"Scratch directory for downloaded files."`
	Timeout     time.Duration `default:"0" help:"Overall run timeout (0 means none)."`
	Render      bool          `help:"Render JavaScript pages with headless Chrome when needed."`
	CleanText   bool          `help:"Use main-content extraction instead of full page text."`
	NoImages    bool          `help:"Skip image descriptions."`
	Verbose     bool          `short:"v" help:"Print per-page progress."`
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	ctx := deps.Ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	fetcher := deps.Fetcher
	if c.Render {
		rendered, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = &crawl.RenderAwareFetcher{
			Plain:     deps.Fetcher,
			Rendered:  rendered,
			Extractor: deps.Text,
		}
		defer fetcher.Close()
	}

	if c.Verbose {
		logger := slog.New(slog.NewTextHandler(deps.Stderr, nil))
		fetcher = rod.NewLoggingFetcher(fetcher, logger)
	}

	text := deps.Text
	if c.CleanText {
		text = trafilatura.NewExtractor()
	}

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Text:        text,
		Links:       deps.Links,
		Sitemaps:    deps.Sitemaps,
		RateLimiter: crawl.NewDomainLimiter(c.RPS),
		Concurrency: c.Concurrency,
		MaxDepth:    c.Depth,
	}
	if !c.NoImages {
		crawler.Images = deps.Bytes
		crawler.Describer = deps.Describer
	}

	pipeline := &crawl.Pipeline{
		Crawler:     crawler,
		Downloader:  deps.Downloader,
		Converter:   deps.Converter,
		Embedder:    deps.Embedder,
		Store:       deps.Store,
		Registry:    deps.Registry,
		Log:         deps.Log,
		IndexName:   c.Index,
		DownloadDir: c.DownloadDir,
	}

	summary, err := pipeline.Run(ctx, c.URL, c.progress(deps))
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %q into %q\n", c.URL, c.Index)
	fmt.Fprintf(deps.Stdout, "  pages crawled:    %d\n", summary.PagesCrawled)
	fmt.Fprintf(deps.Stdout, "  files found:      %d\n", summary.FilesFound)
	fmt.Fprintf(deps.Stdout, "  files processed:  %d/%d\n", summary.FilesProcessed, summary.FilesFound)
	fmt.Fprintf(deps.Stdout, "  chunks indexed:   %d\n", summary.ChunksIndexed)
	if len(summary.Errors) > 0 {
		fmt.Fprintf(deps.Stdout, "  errors:           %d\n", len(summary.Errors))
		for _, e := range summary.Errors {
			fmt.Fprintf(deps.Stderr, "    %s: %s\n", crawl.TruncateURL(e.Source, 60), e.Message)
		}
	}
	return nil
}

// progress prints per-page progress when verbose is set, stage transitions
// otherwise.
func (c *CrawlCmd) progress(deps *Dependencies) crawl.ProgressFunc {
	var lastType crawl.ProgressType = -1
	return func(e crawl.ProgressEvent) {
		if c.Verbose {
			switch e.Type {
			case crawl.ProgressPage:
				fmt.Fprintf(deps.Stdout, "  [%d] %s\n", e.Completed, crawl.TruncateURL(e.URL, 70))
			case crawl.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  [%d] FAIL %s: %v\n", e.Completed, crawl.TruncateURL(e.URL, 70), e.Error)
			}
		}
		if e.Type != lastType {
			lastType = e.Type
			switch e.Type {
			case crawl.ProgressStarted:
				fmt.Fprintf(deps.Stdout, "Crawling %s ...\n", e.URL)
			case crawl.ProgressDownloading:
				fmt.Fprintln(deps.Stdout, "Downloading files ...")
			case crawl.ProgressConverting:
				fmt.Fprintln(deps.Stdout, "Converting files ...")
			case crawl.ProgressEmbedding:
				fmt.Fprintln(deps.Stdout, "Embedding chunks ...")
			case crawl.ProgressIndexing:
				fmt.Fprintln(deps.Stdout, "Writing index ...")
			}
		}
	}
}
