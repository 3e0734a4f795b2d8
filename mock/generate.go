package mock

import (
	"context"

	"github.com/civsearch/civsearch"
)

var _ civsearch.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of civsearch.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

var _ civsearch.Generator = (*Generator)(nil)

// Generator is a mock implementation of civsearch.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

var _ civsearch.ImageDescriber = (*ImageDescriber)(nil)

// ImageDescriber is a mock implementation of civsearch.ImageDescriber.
type ImageDescriber struct {
	DescribeImageFn func(ctx context.Context, image []byte) (string, error)
}

func (d *ImageDescriber) DescribeImage(ctx context.Context, image []byte) (string, error) {
	return d.DescribeImageFn(ctx, image)
}
