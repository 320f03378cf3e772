package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator turns a prompt into the text of a comedy script.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Models maps --model names to the backend that serves them.
var Models = map[string]string{
	"gpt-4":        "openai",
	"gpt-4o":       "openai",
	"haiku":        "anthropic",
	"sonnet":       "anthropic",
	"gemini-flash": "gemini",
	"nova-lite":    "bedrock",
}

// ModelNames returns the accepted --model values in a stable order.
func ModelNames() []string {
	return []string{"gpt-4", "gpt-4o", "haiku", "sonnet", "gemini-flash", "nova-lite"}
}

// Credentials carries API keys for the hosted backends. Bedrock uses the AWS
// default credential chain instead.
type Credentials struct {
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// NewGenerator returns the generator for the named model.
func NewGenerator(ctx context.Context, model string, creds Credentials) (Generator, error) {
	switch Models[model] {
	case "openai":
		return NewOpenAIGenerator(model, creds.OpenAIAPIKey, creds.OpenAIBaseURL), nil
	case "anthropic":
		return NewClaudeGenerator(model, creds.AnthropicAPIKey), nil
	case "gemini":
		return NewGeminiGenerator(ctx, model, creds.GeminiAPIKey)
	case "bedrock":
		return NewNovaGenerator(ctx, model)
	default:
		return nil, fmt.Errorf("unknown model %q: must be one of %s", model, strings.Join(ModelNames(), ", "))
	}
}

var errNoCompletion = errors.New("response contained no completion text")
