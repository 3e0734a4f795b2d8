// Package htmltomarkdown converts downloaded HTML documents to Markdown.
package htmltomarkdown

import (
	"context"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/civsearch/civsearch"
)

// Ensure Converter implements civsearch.FileConverter at compile time.
var _ civsearch.FileConverter = (*Converter)(nil)

// Converter converts .html/.htm files to Markdown text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert reads the HTML file at path and returns its Markdown rendering.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", civsearch.Errorf(civsearch.EINVALID, "empty HTML file %q", path)
	}

	return c.conv.ConvertString(string(data))
}

// ConvertString converts an HTML fragment directly, without touching disk.
func (c *Converter) ConvertString(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", civsearch.Errorf(civsearch.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}
