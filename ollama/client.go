// Package ollama provides embedding and text generation backed by a local
// Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/civsearch/civsearch"
)

// Defaults matching a stock local Ollama install.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultEmbedModel = "nomic-embed-text"
	DefaultLLMModel   = "gemma3n"
	DefaultTimeout    = 120 * time.Second
)

// Compile-time interface verification.
var (
	_ civsearch.Embedder       = (*Client)(nil)
	_ civsearch.Generator      = (*Client)(nil)
	_ civsearch.ImageDescriber = (*Client)(nil)
)

// Client calls the Ollama HTTP API. It is stateless and safe for
// concurrent use.
type Client struct {
	baseURL    string
	embedModel string
	llmModel   string
	client     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Ollama server URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithEmbedModel overrides the embedding model.
func WithEmbedModel(model string) Option {
	return func(c *Client) { c.embedModel = model }
}

// WithLLMModel overrides the generation model.
func WithLLMModel(model string) Option {
	return func(c *Client) { c.llmModel = model }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// NewClient creates a new Client with defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		embedModel: DefaultEmbedModel,
		llmModel:   DefaultLLMModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// Embed returns an embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]any{
		"model":  c.embedModel,
		"prompt": text,
	}

	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := c.post(ctx, "/api/embeddings", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, civsearch.Errorf(civsearch.EINTERNAL, "model %q returned empty embedding", c.embedModel)
	}

	return resp.Embedding, nil
}

// Generate runs prompt through the generation model and returns its response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

// DescribeImage asks the multimodal generation model to describe image and
// extract any text legible in it.
func (c *Client) DescribeImage(ctx context.Context, image []byte) (string, error) {
	prompt := "Describe the following image or extract any text from it."
	return c.generate(ctx, prompt, [][]byte{image})
}

func (c *Client) generate(ctx context.Context, prompt string, images [][]byte) (string, error) {
	payload := map[string]any{
		"model":  c.llmModel,
		"prompt": prompt,
		"stream": false,
	}
	if len(images) > 0 {
		encoded := make([]string, len(images))
		for i, img := range images {
			encoded[i] = base64.StdEncoding.EncodeToString(img)
		}
		payload["images"] = encoded
	}

	var resp struct {
		Response string `json:"response"`
	}
	if err := c.post(ctx, "/api/generate", payload, &resp); err != nil {
		return "", err
	}

	return resp.Response, nil
}

// post sends a JSON request and decodes the JSON response into out.
// Transport failures and non-200 responses become EUNAVAILABLE errors so
// pipelines can fall back instead of surfacing raw transport errors.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return civsearch.Errorf(civsearch.EUNAVAILABLE, "ollama unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return civsearch.Errorf(civsearch.EUNAVAILABLE, "ollama %s: HTTP %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding ollama response: %w", err)
	}
	return nil
}
