package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"bzr-portal-be/pkg/embedding"
	"bzr-portal-be/pkg/llm"
	"bzr-portal-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the local Ollama stack end to end. Needs a running Ollama
// instance; set OLLAMA_BASE_URL to opt in.

func ollamaBaseURL(t *testing.T) string {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	return baseURL
}

func TestOllamaChat(t *testing.T) {
	baseURL := ollamaBaseURL(t)
	provider := ollama.NewOllamaProvider(baseURL, os.Getenv("OLLAMA_LLM_MODEL"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	completion, err := provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Odgovaraj kratko, na srpskom jeziku."},
		{Role: "user", Content: "Šta je akt o proceni rizika?"},
	}, llm.WithTemperature(0.2))
	require.NoError(t, err)
	require.NotNil(t, completion)

	assert.NotEmpty(t, completion.Text)
	assert.Equal(t, "ollama", completion.Provider)
	t.Logf("Chat reply (%d in / %d out tokens): %s",
		completion.InputTokens, completion.OutputTokens, completion.Text)
}

func TestOllamaGenerate(t *testing.T) {
	baseURL := ollamaBaseURL(t)
	provider := ollama.NewOllamaProvider(baseURL, os.Getenv("OLLAMA_LLM_MODEL"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	completion, err := provider.Generate(ctx, "Nabroj tri opasnosti pri zavarivanju.", llm.WithTemperature(0.2))
	require.NoError(t, err)
	assert.NotEmpty(t, completion.Text)
}

func TestOllamaEmbedding(t *testing.T) {
	baseURL := ollamaBaseURL(t)
	provider := embedding.NewOllamaProvider(baseURL, os.Getenv("OLLAMA_EMBEDDING_MODEL"))

	resp, err := provider.Generate("zavarivač - rad sa aparatom za zavarivanje", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.NotNil(t, resp)

	values := resp.Embedding.Values
	assert.NotEmpty(t, values)

	// The provider normalizes to unit length for pgvector cosine distance.
	var magnitude float64
	for _, v := range values {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, magnitude, 0.01)
	t.Logf("Embedding dimensions: %d", len(values))
}
