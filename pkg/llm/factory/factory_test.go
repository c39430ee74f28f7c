package factory

import (
	"testing"

	"ai-tablechat-be/pkg/llm/ollama"
	"ai-tablechat-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	t.Run("openai requires a key", func(t *testing.T) {
		_, err := NewLLMProvider(Settings{Provider: "openai", Model: "gpt-4o-mini"})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("empty provider defaults to openai", func(t *testing.T) {
		p, err := NewLLMProvider(Settings{APIKey: "sk-test", Model: "gpt-4o-mini"})
		require.NoError(t, err)
		assert.IsType(t, &openai.Provider{}, p)
	})

	t.Run("huggingface uses the router by default", func(t *testing.T) {
		p, err := NewLLMProvider(Settings{Provider: "huggingface", APIKey: "hf-test", Model: "meta-llama/Llama-3.1-8B-Instruct"})
		require.NoError(t, err)
		assert.IsType(t, &openai.Provider{}, p)
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		p, err := NewLLMProvider(Settings{Provider: "ollama", BaseURL: "http://localhost:11434", Model: "llama3"})
		require.NoError(t, err)
		assert.IsType(t, &ollama.OllamaProvider{}, p)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewLLMProvider(Settings{Provider: "bard"})
		assert.EqualError(t, err, "unsupported LLM provider: bard")
	})
}
