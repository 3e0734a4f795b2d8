// Package gemini provides embedding and text generation backed by Google
// Gemini, as an alternative to the local ollama backend.
package gemini

import (
	"context"
	"net/http"

	"github.com/civsearch/civsearch"
	"google.golang.org/genai"
)

// Model defaults.
const (
	DefaultGenModel   = "gemini-2.5-flash"
	DefaultEmbedModel = "gemini-embedding-001"
)

// Compile-time interface verification.
var (
	_ civsearch.Embedder       = (*Client)(nil)
	_ civsearch.Generator      = (*Client)(nil)
	_ civsearch.ImageDescriber = (*Client)(nil)
)

// Client wraps a genai.Client behind the civsearch model boundaries.
type Client struct {
	client     *genai.Client
	genModel   string
	embedModel string
}

// Option configures a Client.
type Option func(*Client)

// WithGenModel overrides the generation model.
func WithGenModel(model string) Option {
	return func(c *Client) { c.genModel = model }
}

// WithEmbedModel overrides the embedding model.
func WithEmbedModel(model string) Option {
	return func(c *Client) { c.embedModel = model }
}

// NewClient creates a new Client around an existing genai.Client.
func NewClient(client *genai.Client, opts ...Option) *Client {
	c := &Client{
		client:     client,
		genModel:   DefaultGenModel,
		embedModel: DefaultEmbedModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed returns an embedding vector for text, truncated by the model to
// civsearch.EmbeddingDim dimensions.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := int32(civsearch.EmbeddingDim)
	result, err := c.client.Models.EmbedContent(ctx, c.embedModel,
		[]*genai.Content{genai.NewContentFromText(text, "user")},
		&genai.EmbedContentConfig{OutputDimensionality: &dim},
	)
	if err != nil {
		return nil, civsearch.Errorf(civsearch.EUNAVAILABLE, "gemini embed: %v", err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, civsearch.Errorf(civsearch.EINTERNAL, "gemini returned empty embedding")
	}

	return result.Embeddings[0].Values, nil
}

// Generate runs prompt through the generation model and returns its response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.genModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		generateConfig(),
	)
	if err != nil {
		return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "gemini generate: %v", err)
	}
	if result == nil {
		return "", civsearch.Errorf(civsearch.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// DescribeImage asks the model to describe image and extract any text in it.
func (c *Client) DescribeImage(ctx context.Context, image []byte) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.genModel,
		[]*genai.Content{{
			Parts: []*genai.Part{
				{Text: "Describe the following image or extract any text from it."},
				{InlineData: &genai.Blob{MIMEType: http.DetectContentType(image), Data: image}},
			},
		}},
		generateConfig(),
	)
	if err != nil {
		return "", civsearch.Errorf(civsearch.EUNAVAILABLE, "gemini describe image: %v", err)
	}
	if result == nil {
		return "", civsearch.Errorf(civsearch.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// generateConfig returns the GenerateContentConfig shared by all calls.
func generateConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}
