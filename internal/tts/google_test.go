package tts

import (
	"bytes"
	"context"
	"errors"
	"testing"

	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
)

type fakeGoogleClient struct {
	synthReq  *texttospeechpb.SynthesizeSpeechRequest
	listReq   *texttospeechpb.ListVoicesRequest
	audio     []byte
	voices    []*texttospeechpb.Voice
	err       error
	closeHits int
}

func (f *fakeGoogleClient) SynthesizeSpeech(_ context.Context, req *texttospeechpb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.synthReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: f.audio}, nil
}

func (f *fakeGoogleClient) ListVoices(_ context.Context, req *texttospeechpb.ListVoicesRequest, _ ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error) {
	f.listReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.ListVoicesResponse{Voices: f.voices}, nil
}

func (f *fakeGoogleClient) Close() error {
	f.closeHits++
	return nil
}

func TestGoogleVoices(t *testing.T) {
	fake := &fakeGoogleClient{voices: []*texttospeechpb.Voice{
		{Name: "en-US-Chirp3-HD-Charon", SsmlGender: texttospeechpb.SsmlVoiceGender_MALE},
		{Name: "en-US-Chirp3-HD-Kore", SsmlGender: texttospeechpb.SsmlVoiceGender_FEMALE},
	}}
	p := &GoogleProvider{client: fake}

	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if fake.listReq.LanguageCode != "en-US" {
		t.Errorf("Expected en-US voices, got '%s'", fake.listReq.LanguageCode)
	}
	want := []Voice{
		{ID: "en-US-Chirp3-HD-Charon", Name: "en-US-Chirp3-HD-Charon", Category: "male"},
		{ID: "en-US-Chirp3-HD-Kore", Name: "en-US-Chirp3-HD-Kore", Category: "female"},
	}
	if len(voices) != len(want) {
		t.Fatalf("Expected %d voices, got %d", len(want), len(voices))
	}
	for i := range want {
		if voices[i] != want[i] {
			t.Errorf("voice %d = %+v, want %+v", i, voices[i], want[i])
		}
	}

	c := NewCatalog(voices, p.DefaultVoice())
	if id, err := c.Resolve(DefaultVoiceKey); err != nil || id != googleDefaultVoice {
		t.Errorf("Resolve(default) = %q, %v", id, err)
	}
}

func TestGoogleSynthesize(t *testing.T) {
	fake := &fakeGoogleClient{audio: []byte{0xFF, 0xFB, 0x90, 0x00}}
	p := &GoogleProvider{client: fake}

	var buf bytes.Buffer
	n, err := p.Synthesize(context.Background(), Request{Text: "Hello world", VoiceID: "en-US-Chirp3-HD-Kore"}, &buf)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if n != 4 || !bytes.Equal(buf.Bytes(), fake.audio) {
		t.Errorf("Unexpected audio: n=%d bytes=%x", n, buf.Bytes())
	}
	if got := fake.synthReq.GetInput().GetText(); got != "Hello world" {
		t.Errorf("Unexpected text '%s'", got)
	}
	if got := fake.synthReq.GetVoice().GetName(); got != "en-US-Chirp3-HD-Kore" {
		t.Errorf("Unexpected voice '%s'", got)
	}
	if got := fake.synthReq.GetAudioConfig().GetAudioEncoding(); got != texttospeechpb.AudioEncoding_MP3 {
		t.Errorf("Expected MP3 encoding, got %v", got)
	}

	if err := p.Close(); err != nil || fake.closeHits != 1 {
		t.Errorf("Close = %v, hits %d", err, fake.closeHits)
	}
}

func TestGoogleErrors(t *testing.T) {
	p := &GoogleProvider{client: &fakeGoogleClient{err: errors.New("permission denied")}}
	if _, err := p.Voices(context.Background()); err == nil {
		t.Error("Expected Voices error")
	}
	var buf bytes.Buffer
	if _, err := p.Synthesize(context.Background(), Request{Text: "x"}, &buf); err == nil {
		t.Error("Expected Synthesize error")
	}
}
