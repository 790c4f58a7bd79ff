package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient is the fallback generation backend, reached through Groq's
// OpenAI-compatible chat completions API.
type GroqClient struct {
	client      *openai.Client
	modelName   string
	temperature float32
	maxTokens   int
}

func NewGroqClient(apiKey, modelName string, temperature float32, maxTokens int) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key not configured")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	observability.Logger().Info("initialized groq client", "model", modelName)
	return &GroqClient{
		client:      openai.NewClientWithConfig(cfg),
		modelName:   modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (c *GroqClient) ModelName() string { return c.modelName }

// Generate produces a plain-text completion.
func (c *GroqClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, systemPrompt, userPrompt)
}

// GenerateStructured asks for the JSON shape through the prompt contract
// (Groq has no native structured output) and repairs the result.
func (c *GroqClient) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string) (domain.StructuredAnswer, error) {
	enhanced := fmt.Sprintf("%s\n\nCRITICAL INSTRUCTION: %s", systemPrompt, structuredOutputContract(c.modelName))

	text, err := c.complete(ctx, enhanced, userPrompt)
	if err != nil {
		return domain.StructuredAnswer{}, err
	}
	return ParseStructuredAnswer(text, c.modelName), nil
}

func (c *GroqClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
