package civsearch

import "context"

// CrawlTarget is a URL queued for crawling at a given depth.
type CrawlTarget struct {
	URL   string
	Depth int
}

// PageContent holds everything extracted from a single fetched page.
// It is ephemeral: produced by one fetch and consumed immediately into chunks.
type PageContent struct {
	URL               string
	Text              string
	ImageDescriptions []string

	// Same-origin links discovered on the page, absolute URLs.
	Links []string

	// Downloadable file links discovered on the page, absolute URLs.
	Files []string
}

// FullText returns the page text with image descriptions appended.
func (p *PageContent) FullText() string {
	text := p.Text
	for _, desc := range p.ImageDescriptions {
		if desc == "" {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += desc
	}
	return text
}

// Fetcher retrieves HTML from URLs.
// Implementations may use plain HTTP or browser automation for
// JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}

// BytesFetcher retrieves binary resources such as images.
type BytesFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// TextExtractor extracts readable text from an HTML page.
type TextExtractor interface {
	// ExtractText returns the page's visible text. Implementations decide
	// how aggressively boilerplate is removed.
	ExtractText(html string) (string, error)
}

// PageLinks holds references discovered on a page, resolved to absolute URLs.
type PageLinks struct {
	// Anchor targets, in document order, deduplicated.
	Anchors []string

	// Image sources, in document order, deduplicated.
	Images []string
}

// LinkExtractor discovers anchors and image references in HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns discovered references.
	// The baseURL is used to resolve relative URLs.
	ExtractLinks(html string, baseURL string) (*PageLinks, error)
}
