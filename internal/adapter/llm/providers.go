package llm

import (
	"context"
	"fmt"
	"net/http"

	"study-buddy/internal/config"
	"study-buddy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
)

// NewModel builds the langchaingo client for the configured provider.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model name cannot be empty")
	}

	switch cfg.Provider {
	case ProviderGoogleAI, "gemini", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("googleai API key cannot be empty")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		return openai.New(openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model))
	case ProviderOllama:
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// NewGeneratorFromConfig wires NewModel into a Generator.
func NewGeneratorFromConfig(ctx context.Context, cfg config.LLMConfig) (*Generator, error) {
	model, err := NewModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("LLM client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout))
	return NewGenerator(model, cfg.Provider, cfg.Timeout), nil
}
