// Package trafilatura provides main-content text extraction, removing
// navigation, footers, and other boilerplate before indexing.
package trafilatura

import (
	"strings"

	"github.com/civsearch/civsearch"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements civsearch.TextExtractor at compile time.
var _ civsearch.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract a page's main text.
// Compared to goquery.Extractor it drops boilerplate, which produces cleaner
// chunks at the cost of occasionally discarding sidebar content.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the main content of the page as plain text.
func (e *Extractor) ExtractText(rawHTML string) (string, error) {
	if rawHTML == "" {
		return "", civsearch.Errorf(civsearch.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}

	return result.ContentText, nil
}
