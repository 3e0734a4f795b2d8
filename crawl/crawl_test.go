package crawl_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civsearch/civsearch"
	"github.com/civsearch/civsearch/crawl"
	"github.com/civsearch/civsearch/mock"
)

// siteCrawler builds a Crawler over a fake site described as a map from URL
// to its outgoing anchors. Page text is "content of <url>".
func siteCrawler(site map[string][]string) (*crawl.Crawler, *sync.Map) {
	var fetched sync.Map

	fetcher := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if _, ok := site[url]; !ok {
				return "", civsearch.Errorf(civsearch.ENOTFOUND, "no page at %s", url)
			}
			count, _ := fetched.LoadOrStore(url, 0)
			fetched.Store(url, count.(int)+1)
			return "<html>" + url + "</html>", nil
		},
	}
	text := &mock.TextExtractor{
		ExtractTextFn: func(html string) (string, error) {
			url := strings.TrimSuffix(strings.TrimPrefix(html, "<html>"), "</html>")
			return "content of " + url, nil
		},
	}
	links := &mock.LinkExtractor{
		ExtractLinksFn: func(html, baseURL string) (*civsearch.PageLinks, error) {
			return &civsearch.PageLinks{Anchors: site[baseURL]}, nil
		},
	}

	return &crawl.Crawler{
		Fetcher:     fetcher,
		Text:        text,
		Links:       links,
		RateLimiter: crawl.NewDomainLimiter(1000),
		RetryDelays: []time.Duration{},
	}, &fetched
}

func pageURLs(pages []civsearch.PageContent) []string {
	urls := make([]string, len(pages))
	for i, p := range pages {
		urls[i] = p.URL
	}
	return urls
}

func TestCrawler_Crawl_FollowsLinksBreadthFirst(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/":             {"https://example.gov/permits"},
		"https://example.gov/permits":      {"https://example.gov/permits/fees"},
		"https://example.gov/permits/fees": {"https://example.gov/too-deep"},
		"https://example.gov/too-deep":     {},
	})
	c.MaxDepth = 2

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)

	urls := pageURLs(result.Pages)
	assert.Contains(t, urls, "https://example.gov/")
	assert.Contains(t, urls, "https://example.gov/permits")
	assert.Contains(t, urls, "https://example.gov/permits/fees")
	assert.NotContains(t, urls, "https://example.gov/too-deep", "depth 3 should not be crawled")
}

func TestCrawler_Crawl_FetchesEachURLOnce(t *testing.T) {
	t.Parallel()

	// Both child pages link back to the start page and to each other.
	c, fetched := siteCrawler(map[string][]string{
		"https://example.gov/":  {"https://example.gov/a", "https://example.gov/b"},
		"https://example.gov/a": {"https://example.gov/", "https://example.gov/b"},
		"https://example.gov/b": {"https://example.gov/", "https://example.gov/a"},
	})

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)
	assert.Len(t, result.Pages, 3)

	fetched.Range(func(key, value any) bool {
		assert.Equal(t, 1, value.(int), "URL %s fetched more than once", key)
		return true
	})
}

func TestCrawler_Crawl_ClassifiesFileLinks(t *testing.T) {
	t.Parallel()

	c, fetched := siteCrawler(map[string][]string{
		"https://example.gov/": {
			"https://example.gov/budget.pdf",
			"https://example.gov/forms.docx",
			"https://example.gov/about",
		},
		"https://example.gov/about": {"https://example.gov/budget.pdf"},
	})

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.gov/budget.pdf",
		"https://example.gov/forms.docx",
	}, result.Files, "file links deduplicated and sorted")

	_, pdfFetched := fetched.Load("https://example.gov/budget.pdf")
	assert.False(t, pdfFetched, "file links should not be fetched as pages")
}

func TestCrawler_Crawl_IgnoresCrossHostLinks(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/": {"https://other.example.com/page"},
	})

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)
	assert.Len(t, result.Pages, 1)
}

func TestCrawler_Crawl_RecordsFetchFailures(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/": {
			"https://example.gov/ok",
			"https://example.gov/broken",
		},
		"https://example.gov/ok": {},
	})

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err, "per-page failures should not abort the crawl")

	assert.Len(t, result.Pages, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "https://example.gov/broken", result.Errors[0].Source)
}

func TestCrawler_Crawl_SeedsFromSitemap(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/":         {},
		"https://example.gov/orphaned": {},
	})
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
			return []string{
				"https://example.gov/orphaned",
				"https://other.example.com/skip",
				"https://example.gov/notice.pdf",
			}, nil
		},
	}

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)

	urls := pageURLs(result.Pages)
	assert.Contains(t, urls, "https://example.gov/orphaned", "sitemap URL should be crawled")
	assert.NotContains(t, urls, "https://other.example.com/skip")
	assert.Empty(t, result.Errors)
}

func TestCrawler_Crawl_SitemapFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/": {},
	})
	c.Sitemaps = &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
			return nil, civsearch.Errorf(civsearch.EUNAVAILABLE, "no sitemap")
		},
	}

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)
	assert.Len(t, result.Pages, 1)
}

func TestCrawler_Crawl_DescribesImages(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/": {},
	})
	c.Links = &mock.LinkExtractor{
		ExtractLinksFn: func(html, baseURL string) (*civsearch.PageLinks, error) {
			return &civsearch.PageLinks{
				Images: []string{
					"https://example.gov/map.png",
					"https://example.gov/broken.png",
				},
			}, nil
		},
	}
	c.Images = &mock.BytesFetcher{
		FetchBytesFn: func(ctx context.Context, url string) ([]byte, error) {
			if strings.Contains(url, "broken") {
				return nil, civsearch.Errorf(civsearch.ENOTFOUND, "missing image")
			}
			return []byte{0x89, 0x50}, nil
		},
	}
	c.Describer = &mock.ImageDescriber{
		DescribeImageFn: func(ctx context.Context, image []byte) (string, error) {
			return "A map of the city park.", nil
		},
	}

	result, err := c.Crawl(context.Background(), "https://example.gov/", nil)
	require.NoError(t, err)

	require.Len(t, result.Pages, 1)
	assert.Equal(t, []string{"A map of the city park."}, result.Pages[0].ImageDescriptions,
		"failed image skipped without an error")
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Pages[0].FullText(), "A map of the city park.")
}

func TestCrawler_Crawl_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(nil)
	_, err := c.Crawl(context.Background(), "not a url", nil)
	require.Error(t, err)
	assert.Equal(t, civsearch.EINVALID, civsearch.ErrorCode(err))
}

func TestCrawler_Crawl_ReportsProgress(t *testing.T) {
	t.Parallel()

	c, _ := siteCrawler(map[string][]string{
		"https://example.gov/":  {"https://example.gov/a"},
		"https://example.gov/a": {},
	})

	var mu sync.Mutex
	var events []crawl.ProgressEvent
	_, err := c.Crawl(context.Background(), "https://example.gov/", func(e crawl.ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, crawl.ProgressStarted, events[0].Type)

	var pages int
	for _, e := range events {
		if e.Type == crawl.ProgressPage {
			pages++
		}
	}
	assert.Equal(t, 2, pages)
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			if attempts < 3 {
				return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "flaky")
			}
			return "<html></html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/", fetch, nil,
			[]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond})
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns last error when all attempts fail", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			attempts++
			return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "down")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.gov/", fetch, nil,
			[]time.Duration{time.Millisecond})
		require.Error(t, err)
		assert.Equal(t, 2, attempts, "one initial attempt plus one retry")
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "down")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.gov/", fetch, nil,
			[]time.Duration{time.Hour})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
