package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
)

const (
	googleLanguageCode = "en-US"
	googleDefaultVoice = "en-US-Chirp3-HD-Charon"
)

// googleClient is the subset of the Cloud TTS client the provider calls.
type googleClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	Close() error
}

// GoogleProvider implements Provider using Google Cloud TTS. Audio is always
// MP3; the requested output format is ignored.
type GoogleProvider struct {
	client googleClient
}

func NewGoogleProvider(ctx context.Context) (*GoogleProvider, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create Google TTS client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) DefaultVoice() Voice {
	return Voice{ID: googleDefaultVoice, Name: googleDefaultVoice}
}

func (p *GoogleProvider) Synthesize(ctx context.Context, req Request, w io.Writer) (int64, error) {
	resp, err := p.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: googleLanguageCode,
			Name:         req.VoiceID,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("Google TTS synthesize: %w", err)
	}

	n, err := io.Copy(w, bytes.NewReader(resp.AudioContent))
	if err != nil {
		return n, fmt.Errorf("write audio: %w", err)
	}
	return n, nil
}

func (p *GoogleProvider) Voices(ctx context.Context) ([]Voice, error) {
	resp, err := p.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{LanguageCode: googleLanguageCode})
	if err != nil {
		return nil, fmt.Errorf("Google TTS list voices: %w", err)
	}
	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, Voice{
			ID:       v.Name,
			Name:     v.Name,
			Category: strings.ToLower(v.SsmlGender.String()),
		})
	}
	return voices, nil
}

func (p *GoogleProvider) Close() error { return p.client.Close() }
