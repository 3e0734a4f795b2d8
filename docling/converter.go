// Package docling converts PDF and Office documents to Markdown by invoking
// the docling CLI. The tool is an external dependency; when it is not
// installed every conversion fails with a per-file error rather than
// aborting the run.
package docling

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/civsearch/civsearch"
)

// DefaultBinary is the docling executable looked up on PATH.
const DefaultBinary = "docling"

var _ civsearch.FileConverter = (*Converter)(nil)

// Converter shells out to docling to convert one document at a time.
// It is safe for concurrent use; each conversion gets its own scratch
// output directory.
type Converter struct {
	bin string
}

// Option configures a Converter.
type Option func(*Converter)

// WithBinary overrides the docling executable path.
func WithBinary(path string) Option {
	return func(c *Converter) {
		c.bin = path
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{bin: DefaultBinary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs docling on the file at path and returns the produced Markdown.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	if _, err := exec.LookPath(c.bin); err != nil {
		return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "docling not installed: %v", err)
	}

	outDir, err := os.MkdirTemp("", "docling-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, c.bin, "--to", "md", "--output", outDir, path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("docling %s: %s", filepath.Base(path), msg)
	}

	// docling writes <input-stem>.md into the output directory.
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out, err := os.ReadFile(filepath.Join(outDir, stem+".md"))
	if err != nil {
		return "", fmt.Errorf("docling produced no output for %s: %w", filepath.Base(path), err)
	}

	return string(out), nil
}
