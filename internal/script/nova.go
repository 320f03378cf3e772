package script

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

const novaLiteModelID = "us.amazon.nova-2-lite-v1:0"

// converser is the part of the Bedrock runtime client the generator uses.
type converser interface {
	Converse(ctx context.Context, in *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// NovaGenerator writes scripts with Amazon Nova through the Bedrock Converse API.
// Credentials come from the AWS default chain.
type NovaGenerator struct {
	modelID string
	client  converser
}

func NewNovaGenerator(ctx context.Context, model string) (*NovaGenerator, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return &NovaGenerator{modelID: novaLiteModelID, client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (g *NovaGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: p.System}},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: p.User}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock converse %s: %w", g.modelID, err)
	}

	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", errNoCompletion
	}
	for _, block := range msg.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok && tb.Value != "" {
			return tb.Value, nil
		}
	}
	return "", errNoCompletion
}
