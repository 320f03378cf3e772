package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

const (
	pollyDefaultVoice = "Matthew"
	pollySampleRate   = "24000"

	// SynthesizeSpeech rejects requests over 3000 billed characters.
	pollyMaxChars = 3000
)

var errEmptyText = errors.New("no text to synthesize")

// pollyAPI is the part of the Polly client the provider calls.
type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, in *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
	DescribeVoices(ctx context.Context, in *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error)
}

// PollyProvider implements Provider using Amazon Polly's generative engine.
// Audio is MP3 at 24 kHz; the requested output format is ignored. Long
// scripts are sent in sentence-aligned chunks and the MP3 streams are written
// back to back.
type PollyProvider struct {
	client pollyAPI
}

func NewPollyProvider(ctx context.Context, region string) (*PollyProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for Polly: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return &PollyProvider{client: polly.NewFromConfig(cfg)}, nil
}

func (p *PollyProvider) Name() string { return "polly" }

func (p *PollyProvider) DefaultVoice() Voice {
	return Voice{ID: pollyDefaultVoice, Name: pollyDefaultVoice, Category: "male, en-US"}
}

func (p *PollyProvider) Synthesize(ctx context.Context, req Request, w io.Writer) (int64, error) {
	chunks := splitText(req.Text, pollyMaxChars)
	if len(chunks) == 0 {
		return 0, errEmptyText
	}

	var total int64
	for i, chunk := range chunks {
		resp, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
			Engine:       types.EngineGenerative,
			OutputFormat: types.OutputFormatMp3,
			SampleRate:   aws.String(pollySampleRate),
			Text:         aws.String(chunk),
			TextType:     types.TextTypeText,
			VoiceId:      types.VoiceId(req.VoiceID),
		})
		if err != nil {
			return total, fmt.Errorf("Polly synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		n, err := io.Copy(w, resp.AudioStream)
		resp.AudioStream.Close()
		total += n
		if err != nil {
			return total, fmt.Errorf("write audio: %w", err)
		}
	}
	return total, nil
}

func (p *PollyProvider) Voices(ctx context.Context) ([]Voice, error) {
	var (
		voices []Voice
		token  *string
	)
	for {
		resp, err := p.client.DescribeVoices(ctx, &polly.DescribeVoicesInput{
			Engine:    types.EngineGenerative,
			NextToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("Polly describe voices: %w", err)
		}
		for _, v := range resp.Voices {
			voices = append(voices, Voice{
				ID:       string(v.Id),
				Name:     aws.ToString(v.Name),
				Category: strings.ToLower(string(v.Gender)) + ", " + string(v.LanguageCode),
			})
		}
		if aws.ToString(resp.NextToken) == "" {
			return voices, nil
		}
		token = resp.NextToken
	}
}

func (p *PollyProvider) Close() error { return nil }

// splitText packs whole sentences into chunks of at most limit runes. A
// sentence longer than limit is split between words, and a word longer than
// limit is cut.
func splitText(text string, limit int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	add := func(piece string) {
		n := utf8.RuneCountInString(piece)
		if curLen > 0 && curLen+1+n > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(piece)
		curLen += n
	}

	for _, s := range sentences(text) {
		if utf8.RuneCountInString(s) <= limit {
			add(s)
			continue
		}
		for _, word := range strings.Fields(s) {
			for utf8.RuneCountInString(word) > limit {
				r := []rune(word)
				add(string(r[:limit]))
				word = string(r[limit:])
			}
			add(word)
		}
	}
	flush()
	return chunks
}

// sentences splits text after '.', '!' or '?' followed by whitespace.
func sentences(text string) []string {
	var out []string
	rs := []rune(text)
	start := 0
	for i, r := range rs {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(rs) && !unicode.IsSpace(rs[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(rs[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(rs[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
