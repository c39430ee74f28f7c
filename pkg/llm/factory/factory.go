package factory

import (
	"errors"
	"fmt"
	"time"

	"ai-tablechat-be/pkg/llm"
	"ai-tablechat-be/pkg/llm/ollama"
	"ai-tablechat-be/pkg/llm/openai"
)

// ErrMissingAPIKey is returned when a hosted provider is configured without a key.
var ErrMissingAPIKey = errors.New("LLM API key is not configured")

// HuggingFaceRouterURL is the OpenAI-compatible router used for LLM_PROVIDER=huggingface.
const HuggingFaceRouterURL = "https://router.huggingface.co/v1"

type Settings struct {
	Provider    string // "openai" | "huggingface" | "ollama"
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	TopP        float64
	Timeout     time.Duration
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "openai", "huggingface", "":
		if s.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		baseURL := s.BaseURL
		if baseURL == "" && s.Provider == "huggingface" {
			baseURL = HuggingFaceRouterURL
		}
		return openai.NewProvider(openai.Config{
			APIKey:      s.APIKey,
			BaseURL:     baseURL,
			Model:       s.Model,
			Temperature: s.Temperature,
			MaxTokens:   s.MaxTokens,
			TopP:        s.TopP,
			Timeout:     s.Timeout,
		}), nil
	case "ollama":
		return ollama.NewOllamaProvider(s.BaseURL, s.Model, llm.Options{
			Temperature: s.Temperature,
			MaxTokens:   s.MaxTokens,
			TopP:        s.TopP,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
