// Package assistant answers questions about a table with a chat-completion model.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/pkg/llm"
)

const logModule = "assistant"

// FallbackAnswer is returned when the model produced no content.
const FallbackAnswer = "Sorry, I could not come up with an answer to that question."

// ErrInferenceUnavailable is the caller-facing failure of any inference call.
var ErrInferenceUnavailable = errors.New("could not reach the inference service, check the network connection and the API key")

// InferenceError hides the transport or API cause behind a generic message.
// The cause stays reachable through errors.Is / errors.As.
type InferenceError struct {
	Cause error
}

func (e *InferenceError) Error() string { return ErrInferenceUnavailable.Error() }

func (e *InferenceError) Unwrap() []error { return []error{ErrInferenceUnavailable, e.Cause} }

type Client struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewClient(provider llm.LLMProvider, log logger.ILogger) *Client {
	return &Client{provider: provider, logger: log}
}

// Answer sends the table context as the system message and the question as
// the user message. No retry is attempted.
func (c *Client) Answer(ctx context.Context, tableContext, question string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: tableContext},
		{Role: llm.RoleUser, Content: question},
	}

	start := time.Now()
	answer, err := c.provider.Chat(ctx, messages)
	if err != nil {
		c.logger.Error(logModule, "Inference request failed", map[string]interface{}{
			"error":       err.Error(),
			"context_len": len(tableContext),
			"question":    question,
		})
		return "", &InferenceError{Cause: err}
	}

	c.logger.Info(logModule, "Inference request completed", map[string]interface{}{
		"context_len": len(tableContext),
		"question":    question,
		"answer_len":  len(answer),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if strings.TrimSpace(answer) == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}
