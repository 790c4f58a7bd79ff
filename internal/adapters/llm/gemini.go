package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// GeminiClient is the primary generation backend. Constructed only when a
// Google API key is configured; the chain handles absence by skipping
// straight to the fallback.
type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
	maxTokens   int32
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, temperature float32, maxTokens int) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	observability.Logger().Info("initialized gemini client", "model", modelName)
	return &GeminiClient{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
		maxTokens:   int32(maxTokens),
	}, nil
}

func (c *GeminiClient) ModelName() string { return c.modelName }

// Generate produces a plain-text completion.
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := c.baseConfig(systemPrompt)

	res, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		// Blocked candidates (safety filters) surface as empty text.
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

// GenerateStructured requests a JSON answer and repairs whatever comes back.
func (c *GeminiClient) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string) (domain.StructuredAnswer, error) {
	cfg := c.baseConfig(systemPrompt)
	cfg.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf("%s\n\n%s", userPrompt, structuredOutputContract(c.modelName))

	res, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return domain.StructuredAnswer{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return domain.StructuredAnswer{}, fmt.Errorf("gemini returned empty text")
	}
	return ParseStructuredAnswer(text, c.modelName), nil
}

func (c *GeminiClient) baseConfig(systemPrompt string) *genai.GenerateContentConfig {
	temp := c.temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   c.maxTokens,
	}
}
