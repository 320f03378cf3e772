package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	elevenLabsDefaultBaseURL = "https://api.elevenlabs.io"
	elevenLabsModelID        = "eleven_turbo_v2"
	elevenLabsDefaultFormat  = "mp3_44100_128"

	elevenLabsDefaultVoiceID   = "JBFqnCBsd6RMkjVDRZzb"
	elevenLabsDefaultVoiceName = "George"
)

// Fixed voice tuning for stand-up delivery: loose and expressive.
var elevenLabsVoiceSettings = elevenLabsVoiceParams{
	Stability:       0.3,
	SimilarityBoost: 0.7,
	Style:           1.0,
	UseSpeakerBoost: true,
}

type elevenLabsRequest struct {
	Text          string                `json:"text"`
	ModelID       string                `json:"model_id"`
	VoiceSettings elevenLabsVoiceParams `json:"voice_settings"`
}

type elevenLabsVoiceParams struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsVoicesResponse struct {
	Voices []struct {
		VoiceID  string `json:"voice_id"`
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"voices"`
}

// ElevenLabsProvider implements Provider using the ElevenLabs REST API.
type ElevenLabsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsProvider creates a provider. An empty baseURL selects the
// public API. The HTTP client has no timeout; callers bound calls through ctx.
func NewElevenLabsProvider(apiKey, baseURL string) *ElevenLabsProvider {
	if baseURL == "" {
		baseURL = elevenLabsDefaultBaseURL
	}
	return &ElevenLabsProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (p *ElevenLabsProvider) Name() string { return "elevenlabs" }

func (p *ElevenLabsProvider) DefaultVoice() Voice {
	return Voice{ID: elevenLabsDefaultVoiceID, Name: elevenLabsDefaultVoiceName}
}

func (p *ElevenLabsProvider) Synthesize(ctx context.Context, req Request, w io.Writer) (int64, error) {
	bodyBytes, err := json.Marshal(elevenLabsRequest{
		Text:          req.Text,
		ModelID:       elevenLabsModelID,
		VoiceSettings: elevenLabsVoiceSettings,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	format := req.OutputFormat
	if format == "" {
		format = elevenLabsDefaultFormat
	}
	query := url.Values{}
	query.Set("optimize_streaming_latency", "0")
	query.Set("output_format", format)
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?%s", p.baseURL, url.PathEscape(req.VoiceID), query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	res, err := p.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("ElevenLabs API error (status %d): %s", res.StatusCode, string(errBody))
	}

	n, err := io.Copy(w, res.Body)
	if err != nil {
		return n, fmt.Errorf("stream audio: %w", err)
	}
	return n, nil
}

func (p *ElevenLabsProvider) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", p.apiKey)

	res, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("ElevenLabs API error (status %d): %s", res.StatusCode, string(errBody))
	}

	var body elevenLabsVoicesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parse voices: %w", err)
	}

	voices := make([]Voice, 0, len(body.Voices))
	for _, v := range body.Voices {
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return voices, nil
}

func (p *ElevenLabsProvider) Close() error { return nil }
