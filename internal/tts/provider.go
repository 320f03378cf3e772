package tts

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Request describes one synthesis call.
type Request struct {
	Text         string
	VoiceID      string
	OutputFormat string // provider codec identifier, e.g. "mp3_44100_128"
}

// Voice is one entry of a provider's voice catalog.
type Voice struct {
	ID       string
	Name     string
	Category string
}

// Provider synthesizes speech and lists the voices it offers.
type Provider interface {
	Name() string
	// Synthesize streams encoded audio into w and returns the byte count.
	Synthesize(ctx context.Context, req Request, w io.Writer) (int64, error)
	Voices(ctx context.Context) ([]Voice, error)
	DefaultVoice() Voice
	Close() error
}

// ProviderNames returns the accepted --tts values.
func ProviderNames() []string {
	return []string{"elevenlabs", "google", "polly"}
}

// ProviderConfig carries credentials and endpoint overrides for NewProvider.
type ProviderConfig struct {
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	AWSRegion         string
}

// NewProvider creates a TTS provider by name.
func NewProvider(ctx context.Context, name string, cfg ProviderConfig) (Provider, error) {
	switch name {
	case "elevenlabs", "":
		return NewElevenLabsProvider(cfg.ElevenLabsAPIKey, cfg.ElevenLabsBaseURL), nil
	case "google":
		return NewGoogleProvider(ctx)
	case "polly":
		return NewPollyProvider(ctx, cfg.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown TTS provider %q: choose %s", name, strings.Join(ProviderNames(), ", "))
	}
}
