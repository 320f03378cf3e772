package script

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGeneratorSuccess(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path '/v1/chat/completions', got '%s'", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got '%s'", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "So my cat..."}},
				{"message": map[string]string{"role": "assistant", "content": "second"}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenAIGenerator("gpt-4", "test-key", server.URL+"/v1")
	text, err := g.Generate(context.Background(), Prompt{System: "sys", User: "usr"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "So my cat..." {
		t.Errorf("Expected first completion, got '%s'", text)
	}
	if got.Model != "gpt-4" {
		t.Errorf("Expected model 'gpt-4', got '%s'", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[0].Content != "sys" ||
		got.Messages[1].Role != "user" || got.Messages[1].Content != "usr" {
		t.Errorf("Unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIGeneratorNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("gpt-4", "test-key", server.URL+"/v1")
	if _, err := g.Generate(context.Background(), Prompt{}); err == nil {
		t.Error("Expected an error for a response with no choices")
	}
}

func TestOpenAIGeneratorHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("gpt-4", "wrong", server.URL+"/v1")
	if _, err := g.Generate(context.Background(), Prompt{}); err == nil {
		t.Error("Expected an error for a 401 response")
	}
}

func TestNewGeneratorUnknownModel(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "gpt-2", Credentials{}); err == nil {
		t.Error("Expected an error for an unknown model")
	}
}
