// Package app assembles the comedy pipeline from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/apresai/comedian/internal/config"
	"github.com/apresai/comedian/internal/output"
	"github.com/apresai/comedian/internal/pipeline"
	"github.com/apresai/comedian/internal/prefs"
	"github.com/apresai/comedian/internal/progress"
	"github.com/apresai/comedian/internal/publish"
	"github.com/apresai/comedian/internal/script"
	"github.com/apresai/comedian/internal/tts"
)

// App holds everything one process needs to run comedy submissions.
type App struct {
	Config       config.Config
	Log          *slog.Logger
	Generator    script.Generator
	Voice        tts.Provider
	Catalog      *tts.Catalog
	Store        *prefs.Store
	Writer       *output.Writer
	Orchestrator *pipeline.Orchestrator
}

// New validates cfg, loads preferences, creates the output root, connects
// the generation and speech backends and fetches the voice catalog once.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, onProgress progress.Callback) (*App, error) {
	if cfg.SecretPrefix != "" {
		if err := cfg.LoadSecrets(ctx, logger); err != nil {
			logger.Warn("Failed to load secrets from Secrets Manager, falling back to env vars", "error", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := prefs.NewStore(cfg.PrefsFile)
	current, err := store.Load()
	if err != nil {
		return nil, err
	}

	writer := output.NewWriter(cfg.OutputDir)
	if err := writer.EnsureRoot(); err != nil {
		return nil, err
	}

	gen, err := script.NewGenerator(ctx, cfg.Model, cfg.Credentials())
	if err != nil {
		return nil, fmt.Errorf("create script generator: %w", err)
	}

	provider, err := tts.NewProvider(ctx, cfg.TTS, tts.ProviderConfig{
		ElevenLabsAPIKey:  cfg.ElevenLabsAPIKey,
		ElevenLabsBaseURL: cfg.ElevenLabsBaseURL,
		AWSRegion:         cfg.AWSRegion,
	})
	if err != nil {
		closeIfCloser(gen)
		return nil, fmt.Errorf("create TTS provider: %w", err)
	}

	catalog, err := tts.LoadCatalog(ctx, provider)
	if err != nil {
		logger.Warn("Voice catalog unavailable, only the default voice can be used", "provider", provider.Name(), "error", err)
		catalog = tts.NewCatalog(nil, provider.DefaultVoice())
	}
	logger.Debug("Voice catalog loaded", "provider", provider.Name(), "voices", len(catalog.Voices()))

	orch := pipeline.New(pipeline.Options{
		Generator:   gen,
		Synthesizer: provider,
		Writer:      writer,
		Store:       store,
		Logger:      logger,
		OnProgress:  onProgress,
	}, current)

	return &App{
		Config:       cfg,
		Log:          logger,
		Generator:    gen,
		Voice:        provider,
		Catalog:      catalog,
		Store:        store,
		Writer:       writer,
		Orchestrator: orch,
	}, nil
}

// Publisher returns an S3 publisher, or nil when no bucket is configured.
func (a *App) Publisher(ctx context.Context) (*publish.Publisher, error) {
	if a.Config.Bucket == "" {
		return nil, nil
	}
	client, err := publish.NewS3Client(ctx, a.Config.AWSRegion)
	if err != nil {
		return nil, err
	}
	return publish.New(client, a.Config.Bucket, a.Config.BucketPrefix, a.Config.PublicBaseURL), nil
}

// Close releases backend clients.
func (a *App) Close() error {
	return errors.Join(closeIfCloser(a.Generator), a.Voice.Close())
}

func closeIfCloser(v any) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
