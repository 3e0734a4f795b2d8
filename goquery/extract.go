// Package goquery provides HTML page extraction: visible text, anchors, and
// image references, resolved against the page URL.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/civsearch/civsearch"
	"golang.org/x/net/html"
)

// Ensure Extractor implements the extraction interfaces at compile time.
var (
	_ civsearch.TextExtractor = (*Extractor)(nil)
	_ civsearch.LinkExtractor = (*Extractor)(nil)
)

// Extractor extracts text and references from HTML using CSS traversal.
// Text extraction returns all visible strings, one per line, matching what a
// reader would see rather than attempting boilerplate removal; use
// trafilatura.Extractor for main-content extraction.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the page's visible text, one stripped string per line,
// in document order. Script, style, and similar non-rendered elements are
// skipped.
func (e *Extractor) ExtractText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", civsearch.Errorf(civsearch.EINVALID, "failed to parse HTML: %v", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(lines, "\n"), nil
}

// ExtractLinks parses HTML and returns anchor targets and image sources
// resolved to absolute URLs, deduplicated, in document order. Non-HTTP
// schemes (javascript:, mailto:, data:) are dropped; fragments are stripped.
func (e *Extractor) ExtractLinks(rawHTML string, baseURL string) (*civsearch.PageLinks, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, civsearch.Errorf(civsearch.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, civsearch.Errorf(civsearch.EINVALID, "failed to parse HTML: %v", err)
	}

	links := &civsearch.PageLinks{}
	seenAnchors := make(map[string]bool)
	seenImages := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" || seenAnchors[resolved] {
			return
		}
		seenAnchors[resolved] = true
		links.Anchors = append(links.Anchors, resolved)
	})

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		resolved := resolveURL(base, src)
		if resolved == "" || seenImages[resolved] {
			return
		}
		seenImages[resolved] = true
		links.Images = append(links.Images, resolved)
	})

	return links, nil
}

// resolveURL resolves ref against base and returns an absolute http(s) URL
// with any fragment stripped, or "" if the reference is unusable.
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}
