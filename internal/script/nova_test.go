package script

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

type fakeConverser struct {
	in  *bedrockruntime.ConverseInput
	out *bedrockruntime.ConverseOutput
	err error
}

func (f *fakeConverser) Converse(_ context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.in = in
	return f.out, f.err
}

func novaReply(blocks ...types.ContentBlock) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{Value: types.Message{
			Role:    types.ConversationRoleAssistant,
			Content: blocks,
		}},
	}
}

func TestNovaGeneratorSuccess(t *testing.T) {
	fake := &fakeConverser{out: novaReply(&types.ContentBlockMemberText{Value: "Airports are malls with anxiety."})}
	g := &NovaGenerator{modelID: novaLiteModelID, client: fake}

	text, err := g.Generate(context.Background(), Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Airports are malls with anxiety." {
		t.Errorf("Unexpected text '%s'", text)
	}
	if aws.ToString(fake.in.ModelId) != novaLiteModelID {
		t.Errorf("Unexpected model '%s'", aws.ToString(fake.in.ModelId))
	}
	if sys, ok := fake.in.System[0].(*types.SystemContentBlockMemberText); !ok || sys.Value != "sys" {
		t.Errorf("Unexpected system block %#v", fake.in.System[0])
	}
	if len(fake.in.Messages) != 1 || fake.in.Messages[0].Role != types.ConversationRoleUser {
		t.Errorf("Unexpected messages %#v", fake.in.Messages)
	}
}

func TestNovaGeneratorEmptyReply(t *testing.T) {
	g := &NovaGenerator{modelID: novaLiteModelID, client: &fakeConverser{out: novaReply()}}
	if _, err := g.Generate(context.Background(), Prompt{}); !errors.Is(err, errNoCompletion) {
		t.Errorf("Expected errNoCompletion, got %v", err)
	}
}

func TestNovaGeneratorTransportError(t *testing.T) {
	g := &NovaGenerator{modelID: novaLiteModelID, client: &fakeConverser{err: errors.New("throttled")}}
	if _, err := g.Generate(context.Background(), Prompt{}); err == nil {
		t.Error("Expected error")
	}
}
