package crawl

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/civsearch/civsearch"
)

var _ civsearch.FileConverter = (*ConverterMux)(nil)

// ConverterMux dispatches file conversion by extension. HTML files go to a
// fast local converter; everything else (PDF, Office formats) goes to the
// document converter.
type ConverterMux struct {
	HTML     civsearch.FileConverter
	Document civsearch.FileConverter
}

// Convert routes path to the converter registered for its extension.
func (m *ConverterMux) Convert(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		if m.HTML != nil {
			return m.HTML.Convert(ctx, path)
		}
	}
	if m.Document == nil {
		return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "no converter for %s", filepath.Base(path))
	}
	return m.Document.Convert(ctx, path)
}
