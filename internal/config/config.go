package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/apresai/comedian/internal/output"
	"github.com/apresai/comedian/internal/prefs"
	"github.com/apresai/comedian/internal/script"
	"github.com/apresai/comedian/internal/tts"
)

// Config is the process-wide configuration resolved at startup.
type Config struct {
	Model     string
	TTS       string
	OutputDir string
	PrefsFile string

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	GeminiAPIKey      string
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string

	SecretPrefix string
	AWSRegion    string

	// S3 publishing; Bucket empty disables it.
	Bucket        string
	BucketPrefix  string
	PublicBaseURL string
}

// ConfigurationError reports credentials that must be present before the
// process can do any work.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required environment variable(s): %s", strings.Join(e.Missing, ", "))
}

// Load reads a .env file if present and then the process environment.
func Load() Config {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() Config {
	return Config{
		Model:             envOr("COMEDIAN_MODEL", "gpt-4"),
		TTS:               envOr("COMEDIAN_TTS", "elevenlabs"),
		OutputDir:         envOr("COMEDIAN_OUTPUT_DIR", output.DefaultRoot),
		PrefsFile:         envOr("COMEDIAN_PREFS_FILE", prefs.DefaultPath),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		ElevenLabsAPIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL: os.Getenv("ELEVENLABS_BASE_URL"),
		SecretPrefix:      os.Getenv("COMEDIAN_SECRET_PREFIX"),
		AWSRegion:         envOr("AWS_REGION", "us-east-1"),
		Bucket:            os.Getenv("COMEDIAN_S3_BUCKET"),
		BucketPrefix:      envOr("COMEDIAN_S3_PREFIX", "comedy"),
		PublicBaseURL:     os.Getenv("COMEDIAN_PUBLIC_URL"),
	}
}

// Validate checks that the selected model and TTS provider have credentials.
// Bedrock, Polly and Google Cloud TTS use ambient cloud credentials and are not checked.
func (c Config) Validate() error {
	if _, ok := script.Models[c.Model]; !ok {
		return fmt.Errorf("invalid model %q: must be one of %s", c.Model, strings.Join(script.ModelNames(), ", "))
	}

	needed := map[string]bool{}
	switch script.Models[c.Model] {
	case "openai":
		if c.OpenAIAPIKey == "" {
			needed["OPENAI_API_KEY"] = true
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			needed["ANTHROPIC_API_KEY"] = true
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			needed["GEMINI_API_KEY"] = true
		}
	}

	switch c.TTS {
	case "elevenlabs":
		if c.ElevenLabsAPIKey == "" {
			needed["ELEVENLABS_API_KEY"] = true
		}
	case "google", "polly":
	default:
		return fmt.Errorf("invalid TTS provider %q: must be one of %s", c.TTS, strings.Join(tts.ProviderNames(), ", "))
	}

	if len(needed) == 0 {
		return nil
	}
	missing := make([]string, 0, len(needed))
	for k := range needed {
		missing = append(missing, k)
	}
	sort.Strings(missing)
	return &ConfigurationError{Missing: missing}
}

// Credentials returns the subset of c the script generators need.
func (c Config) Credentials() script.Credentials {
	return script.Credentials{
		OpenAIAPIKey:    c.OpenAIAPIKey,
		OpenAIBaseURL:   c.OpenAIBaseURL,
		AnthropicAPIKey: c.AnthropicAPIKey,
		GeminiAPIKey:    c.GeminiAPIKey,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
