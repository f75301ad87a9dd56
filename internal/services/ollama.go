package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OllamaGateway speaks the Ollama chat API: one user message per call,
// non-streaming, optional JSON response format.
type OllamaGateway struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Format   string          `json:"format,omitempty"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message *ollamaMessage `json:"message"`
	Error   string         `json:"error,omitempty"`
}

func NewOllamaGateway(baseURL, model string) *OllamaGateway {
	return &OllamaGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		modelName:  model,
		httpClient: &http.Client{},
	}
}

// Generate implements LLMGateway.
func (o *OllamaGateway) Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrInvalidInput)
	}

	reqBody := ollamaChatRequest{
		Model: o.modelName,
		Messages: []ollamaMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}
	if format == FormatJSON {
		reqBody.Format = "json"
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrUnavailable, chatResp.Error)
		}
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if chatResp.Message == nil || strings.TrimSpace(chatResp.Message.Content) == "" {
		return "", fmt.Errorf("%w: missing message content", ErrMalformedResponse)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}
