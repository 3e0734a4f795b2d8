package civsearch

import "context"

// Embedder generates fixed-dimension embeddings for text.
type Embedder interface {
	// Embed returns a vector of EmbeddingDim floats for text.
	// Transport and model failures are returned as errors; callers decide
	// whether a failed embedding is dropped or reported.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator runs prompts through a text-generation model.
type Generator interface {
	// Generate returns the model's response for prompt. Transport and model
	// failures are returned as errors, never as response text; pipelines
	// treat an error or an empty response as a degraded result and fall
	// back deterministically.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageDescriber produces text descriptions of images via a multimodal model.
type ImageDescriber interface {
	// DescribeImage returns a description of image, including any text
	// legible in it.
	DescribeImage(ctx context.Context, image []byte) (string, error)
}
