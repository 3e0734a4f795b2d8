package mock

import "github.com/civsearch/civsearch"

var _ civsearch.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of civsearch.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}

var _ civsearch.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of civsearch.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) (*civsearch.PageLinks, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) (*civsearch.PageLinks, error) {
	return e.ExtractLinksFn(html, baseURL)
}
