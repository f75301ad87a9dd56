package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGateway talks to the Gemini API. It doubles as the embedding
// provider for the knowledge service.
type GeminiGateway struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiGateway(apiKey, model string) (*GeminiGateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrInvalidInput)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}

	return &GeminiGateway{
		client:     client,
		modelName:  model,
		embedModel: "text-embedding-004",
	}, nil
}

// Generate implements LLMGateway.
func (g *GeminiGateway) Generate(ctx context.Context, prompt string, format ResponseFormat) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrInvalidInput)
	}

	temperature := float32(0.3)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if format == FormatJSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrMalformedResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: no text content in response", ErrMalformedResponse)
	}

	return text, nil
}

// GenerateEmbedding returns the embedding vector for the given text.
func (g *GeminiGateway) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long for the embedding model.
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", ErrMalformedResponse)
	}

	return result.Embeddings[0].Values, nil
}
