package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apresai/comedian/internal/config"
	"github.com/apresai/comedian/internal/output"
	"github.com/apresai/comedian/internal/pipeline"
	"github.com/apresai/comedian/internal/progress"
	"github.com/apresai/comedian/internal/script"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeBackends(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/chat/completions":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "My cat ignores me (sigh). Like a landlord."}},
				},
			})
		case r.URL.Path == "/v1/voices":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"voices":[{"voice_id":"v-rachel","name":"Rachel","category":"premade"}]}`))
		case strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/"):
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write([]byte("ID3-" + strings.TrimPrefix(r.URL.Path, "/v1/text-to-speech/")))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, serverURL string) config.Config {
	dir := t.TempDir()
	return config.Config{
		Model:             "gpt-4",
		TTS:               "elevenlabs",
		OutputDir:         filepath.Join(dir, "comedy_output"),
		PrefsFile:         filepath.Join(dir, "comedian_preferences.json"),
		OpenAIAPIKey:      "sk-test",
		OpenAIBaseURL:     serverURL + "/v1",
		ElevenLabsAPIKey:  "xi-test",
		ElevenLabsBaseURL: serverURL,
	}
}

func TestNewAndSubmit(t *testing.T) {
	server := fakeBackends(t)
	cfg := testConfig(t, server.URL)

	var stages []progress.Stage
	a, err := New(context.Background(), cfg, discardLogger(), func(e progress.Event) { stages = append(stages, e.Stage) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, err := os.Stat(cfg.OutputDir); err != nil {
		t.Errorf("output root not created: %v", err)
	}
	if _, err := os.Stat(cfg.PrefsFile); !os.IsNotExist(err) {
		t.Errorf("preferences file created at startup: %v", err)
	}

	voiceID, err := a.Catalog.Resolve("Rachel")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	res, err := a.Orchestrator.Submit(context.Background(), pipeline.Request{
		Thoughts: "My cat ignores me",
		VoiceID:  voiceID,
		Style:    script.StyleSarcastic,
		Clean:    true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	dir := filepath.Join(cfg.OutputDir, "My cat ignores me")
	transcript, err := os.ReadFile(filepath.Join(dir, output.TranscriptFile))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(transcript) != "My cat ignores me . Like a landlord." {
		t.Errorf("transcript = %q", transcript)
	}
	audio, err := os.ReadFile(filepath.Join(dir, output.AudioFile))
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(audio) != "ID3-v-rachel" {
		t.Errorf("audio = %q", audio)
	}
	if res.Folder != dir {
		t.Errorf("Folder = %q, want %q", res.Folder, dir)
	}
	if len(stages) == 0 || stages[len(stages)-1] != progress.StageDone {
		t.Errorf("stages = %v", stages)
	}

	saved, err := a.Store.Load()
	if err != nil {
		t.Fatalf("reload preferences: %v", err)
	}
	if saved.VoiceID != "v-rachel" || saved.ComedyStyle != "sarcastic" || !saved.CleanScript {
		t.Errorf("saved preferences = %+v", saved)
	}
}

func TestNewMissingCredentials(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.ElevenLabsAPIKey = ""

	_, err := New(context.Background(), cfg, discardLogger(), nil)
	var cerr *config.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
	if len(cerr.Missing) != 1 || cerr.Missing[0] != "ELEVENLABS_API_KEY" {
		t.Errorf("Missing = %v", cerr.Missing)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Errorf("output root created despite bad config: %v", err)
	}
}

func TestNewMalformedPreferences(t *testing.T) {
	cfg := testConfig(t, fakeBackends(t).URL)
	if err := os.WriteFile(cfg.PrefsFile, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(context.Background(), cfg, discardLogger(), nil); err == nil {
		t.Fatal("expected error for malformed preferences")
	}
}

func TestNewFallsBackWhenCatalogUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	a, err := New(context.Background(), testConfig(t, server.URL), discardLogger(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id, err := a.Catalog.Resolve("default")
	if err != nil || id == "" {
		t.Errorf("Resolve(default) = %q, %v", id, err)
	}
}

func TestPublisherDisabledWithoutBucket(t *testing.T) {
	a := &App{Config: config.Config{}}
	p, err := a.Publisher(context.Background())
	if err != nil || p != nil {
		t.Errorf("Publisher = %v, %v; want nil, nil", p, err)
	}
}
