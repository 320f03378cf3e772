package script

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openAIModels = map[string]string{
	"gpt-4":  openai.GPT4,
	"gpt-4o": openai.GPT4o,
}

// OpenAIGenerator calls the OpenAI chat completions API with default sampling.
type OpenAIGenerator struct {
	model  string
	client *openai.Client
}

// NewOpenAIGenerator creates a generator. baseURL overrides the API endpoint
// when non-empty.
func NewOpenAIGenerator(model, apiKey, baseURL string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	modelID := openAIModels[g.model]
	if modelID == "" {
		modelID = openai.GPT4
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errNoCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
