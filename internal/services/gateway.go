package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inclusiveai/skill-assessment/internal/config"
)

type ResponseFormat string

const (
	FormatFree ResponseFormat = "free"
	FormatJSON ResponseFormat = "json"
)

// LLMGateway is a single synchronous round trip to a text-generation
// backend. No retries and no caching live at this layer; retry policy
// belongs to the caller.
type LLMGateway interface {
	Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error)
}

// timeoutGateway bounds every call with a fixed deadline. A deadline hit
// reports as ErrUnavailable, same as an unreachable backend.
type timeoutGateway struct {
	inner   LLMGateway
	timeout time.Duration
}

func WithTimeout(inner LLMGateway, timeout time.Duration) LLMGateway {
	if timeout <= 0 {
		return inner
	}
	return &timeoutGateway{inner: inner, timeout: timeout}
}

func (t *timeoutGateway) Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result, err := t.inner.Generate(ctx, prompt, format)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: timed out after %s", ErrUnavailable, t.timeout)
	}
	return result, err
}

// NewGateway builds the configured backend wrapped with the call timeout.
func NewGateway(cfg *config.Config) (LLMGateway, error) {
	var (
		gateway LLMGateway
		err     error
	)

	switch strings.ToLower(cfg.LLM.Provider) {
	case "gemini":
		gateway, err = NewGeminiGateway(cfg.LLM.GeminiAPIKey, "")
	case "ollama":
		gateway = NewOllamaGateway(cfg.LLM.OllamaURL, cfg.LLM.OllamaModel)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithTimeout(gateway, cfg.LLM.Timeout), nil
}
