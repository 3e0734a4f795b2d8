// Package crawl provides website crawling and indexing orchestration.
// It coordinates fetching, extraction, file downloads, chunking, embedding,
// and vector storage for a municipal website.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/civsearch/civsearch"
	"github.com/civsearch/civsearch/bloom"
)

// DefaultConcurrency is the number of pages fetched in parallel.
const DefaultConcurrency = 5

// DefaultMaxDepth is how many link hops from the start page are followed.
const DefaultMaxDepth = 2

// DefaultRequestsPerSecond is the politeness limit per domain.
const DefaultRequestsPerSecond = 1.0

// Crawler walks a website breadth-first, wave by wave: all pages at one
// depth are processed before any page at the next depth.
type Crawler struct {
	Fetcher     civsearch.Fetcher
	Images      civsearch.BytesFetcher   // optional, enables image descriptions
	Describer   civsearch.ImageDescriber // optional, enables image descriptions
	Text        civsearch.TextExtractor
	Links       civsearch.LinkExtractor
	Sitemaps    civsearch.SitemapService // optional, seeds the frontier
	RateLimiter *DomainLimiter
	Concurrency int
	MaxDepth    int
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	Pages  []civsearch.PageContent
	Files  []string
	Errors []civsearch.IndexError
}

// ProgressEvent reports progress during crawling and indexing.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	URL       string
	Depth     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressPage
	ProgressFailed
	ProgressDownloading
	ProgressConverting
	ProgressEmbedding
	ProgressIndexing
	ProgressFinished
)

// ProgressFunc is a callback for reporting progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single page.
type pageResult struct {
	target civsearch.CrawlTarget
	page   civsearch.PageContent
	files  []string
	links  []string
	err    error
}

// Crawl walks the site starting at baseURL and returns the extracted pages
// and the file links discovered along the way. Per-page failures are
// collected in Result.Errors; only an invalid base URL or a canceled
// context aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, baseURL string, progress ProgressFunc) (*Result, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, civsearch.Errorf(civsearch.EINVALID, "invalid base URL %q", baseURL)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	maxDepth := c.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	limiter := c.RateLimiter
	if limiter == nil {
		limiter = NewDomainLimiter(DefaultRequestsPerSecond)
	}

	frontier := NewFrontier()
	frontier.Push(civsearch.CrawlTarget{URL: baseURL})
	c.seedFromSitemap(ctx, baseURL, base.Host, frontier)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, URL: baseURL})
	}

	result := &Result{}
	fileSet := bloom.NewSet(100000, 0.01)
	var completed int

	for {
		wave := drain(frontier)
		if len(wave) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resultCh := make(chan pageResult, len(wave))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, target := range wave {
			target := target
			g.Go(func() error {
				resultCh <- c.processPage(gctx, limiter, base.Host, target)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)

		for pr := range resultCh {
			completed++
			if pr.err != nil {
				result.Errors = append(result.Errors, civsearch.IndexError{
					Source:  pr.target.URL,
					Message: pr.err.Error(),
				})
				if progress != nil {
					progress(ProgressEvent{
						Type:      ProgressFailed,
						Completed: completed,
						URL:       pr.target.URL,
						Depth:     pr.target.Depth,
						Error:     pr.err,
					})
				}
				continue
			}

			result.Pages = append(result.Pages, pr.page)
			for _, file := range pr.files {
				if fileSet.TestAndAdd(file) {
					continue
				}
				result.Files = append(result.Files, file)
			}
			if pr.target.Depth < maxDepth {
				for _, link := range pr.links {
					frontier.Push(civsearch.CrawlTarget{URL: link, Depth: pr.target.Depth + 1})
				}
			}
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressPage,
					Completed: completed,
					URL:       pr.target.URL,
					Depth:     pr.target.Depth,
				})
			}
		}
	}

	// Stable order for downstream processing regardless of worker timing.
	sort.Slice(result.Pages, func(i, j int) bool {
		return result.Pages[i].URL < result.Pages[j].URL
	})
	sort.Strings(result.Files)

	return result, nil
}

// seedFromSitemap pushes same-host sitemap URLs at depth 0. Sitemap failure
// is not an error; the BFS walk covers the site on its own.
func (c *Crawler) seedFromSitemap(ctx context.Context, baseURL, host string, frontier *Frontier) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, baseURL)
	if err != nil {
		return
	}
	for _, u := range urls {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Host != host {
			continue
		}
		if civsearch.IsFileLink(u) {
			continue
		}
		frontier.Push(civsearch.CrawlTarget{URL: u})
	}
}

// processPage fetches one page, extracts its text and links, and describes
// its images. Anchors are split into same-host page links to follow and
// file links to download.
func (c *Crawler) processPage(ctx context.Context, limiter *DomainLimiter, host string, target civsearch.CrawlTarget) pageResult {
	pr := pageResult{target: target}

	targetURL, err := url.Parse(target.URL)
	if err != nil {
		pr.err = civsearch.Errorf(civsearch.EINVALID, "invalid URL %q", target.URL)
		return pr
	}

	if err := limiter.Wait(ctx, targetURL.Host); err != nil {
		pr.err = err
		return pr
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, target.URL, c.Fetcher.Fetch, nil, delays)
	if err != nil {
		pr.err = fmt.Errorf("fetching: %w", err)
		return pr
	}

	text, err := c.Text.ExtractText(html)
	if err != nil {
		pr.err = fmt.Errorf("extracting text: %w", err)
		return pr
	}

	links, err := c.Links.ExtractLinks(html, target.URL)
	if err != nil {
		pr.err = fmt.Errorf("extracting links: %w", err)
		return pr
	}

	pr.page = civsearch.PageContent{URL: target.URL, Text: text}
	for _, anchor := range links.Anchors {
		if civsearch.IsFileLink(anchor) {
			pr.files = append(pr.files, anchor)
			pr.page.Files = append(pr.page.Files, anchor)
			continue
		}
		parsed, err := url.Parse(anchor)
		if err != nil || parsed.Host != host {
			continue
		}
		pr.links = append(pr.links, anchor)
		pr.page.Links = append(pr.page.Links, anchor)
	}

	pr.page.ImageDescriptions = c.describeImages(ctx, limiter, links.Images)

	return pr
}

// describeImages fetches and describes each image on a page. Descriptions
// are best effort; a failed image is skipped without recording an error.
func (c *Crawler) describeImages(ctx context.Context, limiter *DomainLimiter, images []string) []string {
	if c.Images == nil || c.Describer == nil {
		return nil
	}

	var descriptions []string
	for _, img := range images {
		imgURL, err := url.Parse(img)
		if err != nil {
			continue
		}
		if err := limiter.Wait(ctx, imgURL.Host); err != nil {
			return descriptions
		}
		data, err := c.Images.FetchBytes(ctx, img)
		if err != nil {
			continue
		}
		desc, err := c.Describer.DescribeImage(ctx, data)
		if err != nil || desc == "" {
			continue
		}
		descriptions = append(descriptions, desc)
	}
	return descriptions
}

// drain pops every queued target into a slice.
func drain(f *Frontier) []civsearch.CrawlTarget {
	var wave []civsearch.CrawlTarget
	for {
		target, ok := f.Pop()
		if !ok {
			return wave
		}
		wave = append(wave, target)
	}
}
