package gemini_test

import (
	"context"
	"os"
	"testing"

	"github.com/civsearch/civsearch"
	"github.com/civsearch/civsearch/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// Integration tests run only when GEMINI_API_KEY is set.

func newTestClient(t *testing.T) *gemini.Client {
	t.Helper()
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(context.Background(), nil)
	require.NoError(t, err)
	return gemini.NewClient(client)
}

func TestClient_Embed_integration(t *testing.T) {
	c := newTestClient(t)

	vec, err := c.Embed(context.Background(), "when is the next town meeting")
	require.NoError(t, err)
	assert.Len(t, vec, civsearch.EmbeddingDim)
}

func TestClient_Generate_integration(t *testing.T) {
	c := newTestClient(t)

	got, err := c.Generate(context.Background(), "Reply with the single word: pong")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
