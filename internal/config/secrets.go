package config

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// LoadSecrets fills empty API keys from AWS Secrets Manager, reading the
// secret named prefix+ENV_VAR for each. Keys already set are left alone and
// missing secrets are skipped.
func (c *Config) LoadSecrets(ctx context.Context, logger *slog.Logger) error {
	if c.SecretPrefix == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.AWSRegion))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	client := secretsmanager.NewFromConfig(awsCfg)

	targets := map[string]*string{
		"OPENAI_API_KEY":     &c.OpenAIAPIKey,
		"ANTHROPIC_API_KEY":  &c.AnthropicAPIKey,
		"GEMINI_API_KEY":     &c.GeminiAPIKey,
		"ELEVENLABS_API_KEY": &c.ElevenLabsAPIKey,
	}
	for envVar, dst := range targets {
		if *dst != "" {
			continue
		}
		secretID := c.SecretPrefix + envVar
		result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: &secretID,
		})
		if err != nil {
			logger.Debug("Secret not found", "secret_id", secretID, "error", err)
			continue
		}
		if result.SecretString != nil {
			*dst = *result.SecretString
			logger.Info("Loaded secret", "secret_id", secretID)
		}
	}
	return nil
}
