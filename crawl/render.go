package crawl

import (
	"context"

	"github.com/civsearch/civsearch"
)

// minPlainTextRunes is the extracted-text length below which a plain HTTP
// fetch is suspected of missing JavaScript-rendered content.
const minPlainTextRunes = 200

var _ civsearch.Fetcher = (*RenderAwareFetcher)(nil)

// RenderAwareFetcher fetches with a plain HTTP fetcher first and falls back
// to a browser-rendering fetcher when the plain result looks empty. This
// keeps crawls fast on static sites while still handling pages that build
// their content with JavaScript.
type RenderAwareFetcher struct {
	Plain     civsearch.Fetcher
	Rendered  civsearch.Fetcher
	Extractor civsearch.TextExtractor
}

// Fetch returns the plain HTML unless it extracts to almost no text and the
// rendered HTML adds significantly more.
func (f *RenderAwareFetcher) Fetch(ctx context.Context, url string) (string, error) {
	plain, err := f.Plain.Fetch(ctx, url)
	if err != nil {
		if f.Rendered == nil {
			return "", err
		}
		return f.Rendered.Fetch(ctx, url)
	}
	if f.Rendered == nil {
		return plain, nil
	}

	text, err := f.Extractor.ExtractText(plain)
	if err == nil && len([]rune(text)) >= minPlainTextRunes {
		return plain, nil
	}

	rendered, err := f.Rendered.Fetch(ctx, url)
	if err != nil {
		return plain, nil
	}
	if RenderedAddsContent(plain, rendered, f.Extractor) {
		return rendered, nil
	}
	return plain, nil
}

// Close closes both underlying fetchers, returning the first error.
func (f *RenderAwareFetcher) Close() error {
	err := f.Plain.Close()
	if f.Rendered != nil {
		if cerr := f.Rendered.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// RenderedAddsContent compares text extracted from plain-fetched HTML vs
// browser-rendered HTML. Returns true if the rendered text is significantly
// longer (>50%), suggesting JavaScript adds meaningful content. Extraction
// errors also return true, assuming rendering is needed.
func RenderedAddsContent(plainHTML, renderedHTML string, extractor civsearch.TextExtractor) bool {
	plainText, err := extractor.ExtractText(plainHTML)
	if err != nil {
		return true
	}
	renderedText, err := extractor.ExtractText(renderedHTML)
	if err != nil {
		return true
	}

	plainLen := len(plainText)
	renderedLen := len(renderedText)

	if plainLen == 0 {
		return renderedLen > 0
	}
	return float64(renderedLen) > float64(plainLen)*1.5
}
